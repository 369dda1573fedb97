package handlers

import (
	"errors"
	"strconv"

	"notes-backend/app"
	"notes-backend/models"
	"notes-backend/services"

	"github.com/gofiber/fiber/v2"
)

func parseNoteID(c *fiber.Ctx) (int64, error) {
	return strconv.ParseInt(c.Params("id"), 10, 64)
}

// ListNotes returns all notes ordered by most recently updated.
func ListNotes(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		notes, err := a.Notes.List(c.UserContext())
		if err != nil {
			return serverErrorWithDetails(c, "Failed to fetch notes", err)
		}
		return c.JSON(models.NotesList{Items: notes})
	}
}

// GetNote fetches a single note by id.
func GetNote(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseNoteID(c)
		if err != nil {
			return badRequest(c, "Invalid note id")
		}

		note, err := a.Notes.Get(c.UserContext(), id)
		if errors.Is(err, services.ErrNoteNotFound) {
			return notFound(c, id)
		}
		if err != nil {
			return serverErrorWithDetails(c, "Failed to fetch note", err)
		}

		return c.JSON(note)
	}
}

// CreateNote creates a new note with title and content.
func CreateNote(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.CreateNoteRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}
		if err := a.Validator.Validate(req); err != nil {
			return validationError(c, err)
		}

		note, err := a.Notes.Create(c.UserContext(), req.Title, req.Content)
		if err != nil {
			return serverErrorWithDetails(c, "Failed to create note", err)
		}

		return c.Status(fiber.StatusCreated).JSON(note)
	}
}

// UpdateNote applies a partial update to an existing note.
func UpdateNote(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseNoteID(c)
		if err != nil {
			return badRequest(c, "Invalid note id")
		}

		var req models.UpdateNoteRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}
		if err := a.Validator.Validate(req); err != nil {
			return validationError(c, err)
		}

		note, err := a.Notes.Update(c.UserContext(), id, req.Title, req.Content)
		if errors.Is(err, services.ErrNoFieldsToUpdate) {
			return unprocessable(c, err.Error())
		}
		if errors.Is(err, services.ErrNoteNotFound) {
			return notFound(c, id)
		}
		if err != nil {
			return serverErrorWithDetails(c, "Failed to update note", err)
		}

		return c.JSON(note)
	}
}

// DeleteNote removes a note permanently.
func DeleteNote(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseNoteID(c)
		if err != nil {
			return badRequest(c, "Invalid note id")
		}

		err = a.Notes.Delete(c.UserContext(), id)
		if errors.Is(err, services.ErrNoteNotFound) {
			return notFound(c, id)
		}
		if err != nil {
			return serverErrorWithDetails(c, "Failed to delete note", err)
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}

// SearchNotes matches notes by title or content substring.
func SearchNotes(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		req := models.SearchRequest{
			Query: c.Query("q"),
			Limit: c.QueryInt("limit", services.DefaultSearchLimit),
		}
		if err := a.Validator.Validate(req); err != nil {
			return validationError(c, err)
		}

		results, err := a.Notes.Search(c.UserContext(), req.Query, req.Limit)
		if err != nil {
			return serverErrorWithDetails(c, "Failed to search notes", err)
		}

		return c.JSON(results)
	}
}

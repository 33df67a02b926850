package server

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/c3g/chord-project-service/pkg/contract"
)

type handlers struct {
	service contract.ProjectService
}

// projectID returns the path id in canonical form. The route constraint has already
// rejected anything that is not a UUID.
func projectID(c *fiber.Ctx) (string, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return "", fiber.ErrNotFound
	}

	return id.String(), nil
}

func (h handlers) listProjects(c *fiber.Ctx) error {
	projects, cErr := h.service.ListProjects(c.UserContext())
	if cErr != nil {
		return cErr
	}

	return c.JSON(projects)
}

func (h handlers) createProject(c *fiber.Ctx) error {
	project, cErr := h.service.CreateProject(c.UserContext(), c.Body())
	if cErr != nil {
		return cErr
	}

	return c.Status(fiber.StatusCreated).JSON(project)
}

func (h handlers) getProject(c *fiber.Ctx) error {
	id, err := projectID(c)
	if err != nil {
		return err
	}

	project, cErr := h.service.GetProject(c.UserContext(), id)
	if cErr != nil {
		return cErr
	}

	return c.JSON(project)
}

func (h handlers) updateProject(c *fiber.Ctx) error {
	id, err := projectID(c)
	if err != nil {
		return err
	}

	if cErr := h.service.UpdateProject(c.UserContext(), id, c.Body()); cErr != nil {
		return cErr
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h handlers) deleteProject(c *fiber.Ctx) error {
	id, err := projectID(c)
	if err != nil {
		return err
	}

	if cErr := h.service.DeleteProject(c.UserContext(), id); cErr != nil {
		return cErr
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h handlers) listDatasets(c *fiber.Ctx) error {
	id, err := projectID(c)
	if err != nil {
		return err
	}

	datasets, cErr := h.service.ListDatasets(c.UserContext(), id)
	if cErr != nil {
		return cErr
	}

	return c.JSON(datasets)
}

func (h handlers) addDataset(c *fiber.Ctx) error {
	id, err := projectID(c)
	if err != nil {
		return err
	}

	datasets, cErr := h.service.AddDataset(c.UserContext(), id, c.Body())
	if cErr != nil {
		return cErr
	}

	return c.JSON(datasets)
}

func (h handlers) serviceInfo(c *fiber.Ctx) error {
	return c.JSON(h.service.ServiceInfo())
}

func registerRoutes(app *fiber.App, service contract.ProjectService) {
	h := handlers{service: service}

	app.Get("/projects", h.listProjects)
	app.Post("/projects", h.createProject)
	app.Get("/projects/:id<guid>", h.getProject)
	app.Post("/projects/:id<guid>", h.updateProject)
	app.Delete("/projects/:id<guid>", h.deleteProject)
	app.Get("/projects/:id<guid>/datasets", h.listDatasets)
	app.Post("/projects/:id<guid>/datasets", h.addDataset)
	app.Get("/service-info", h.serviceInfo)
}

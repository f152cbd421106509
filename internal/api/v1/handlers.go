package apiv1

import (
	"errors"
	"fmt"
	"math/rand"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/gopherairtime/gopherairtime/app/models"
	"github.com/gopherairtime/gopherairtime/app/repository"
)

// APIServer implements the recharge API endpoints
type APIServer struct{}

// NewAPIServer creates a new API server instance
func NewAPIServer() *APIServer {
	return &APIServer{}
}

// RegisterHandlers attaches the v1 routes to the router group
func RegisterHandlers(r fiber.Router, s *APIServer) {
	r.Get("/ping", s.GetPing)
	r.Post("/recharges", s.PostRecharge)
	r.Get("/recharges", s.GetRecharges)
	r.Get("/recharges/:id", s.GetRecharge)
}

// GetPing handles the ping endpoint
func (s *APIServer) GetPing(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"ping": "pong"})
}

// CreateRechargeRequest is the POST /recharges body. Reference is the
// client's idempotency key; when absent a numeric one is generated.
type CreateRechargeRequest struct {
	MSISDN       string `json:"msisdn" validate:"required,numeric,min=9,max=15"`
	ProductCode  string `json:"product_code" validate:"required"`
	Denomination int64  `json:"denomination" validate:"required,gt=0"`
	ProjectID    uint   `json:"project_id" validate:"required"`
	Reference    string `json:"reference" validate:"omitempty,numeric"`
	Notification string `json:"notification"`
}

// Validate checks the request against its constraints
func (r *CreateRechargeRequest) Validate() error {
	v := validator.New()
	return v.Struct(r)
}

// ToModel builds the unsubmitted recharge record, generating a reference
// when the client did not supply one.
func (r *CreateRechargeRequest) ToModel() *models.Recharge {
	reference := r.Reference
	if reference == "" {
		reference = strconv.FormatInt(rand.Int63n(1_000_000_000_000_000), 10)
	}
	return &models.Recharge{
		MSISDN:       r.MSISDN,
		ProductCode:  r.ProductCode,
		Denomination: r.Denomination,
		ProjectID:    r.ProjectID,
		Reference:    reference,
		Notification: r.Notification,
	}
}

// PostRecharge creates a new recharge request in the unsubmitted state.
// The pipeline picks it up on its next pass.
func (s *APIServer) PostRecharge(c *fiber.Ctx) error {
	var req CreateRechargeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "bad_request",
			"message": "invalid JSON body",
		})
	}

	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":   "validation_failed",
			"message": err.Error(),
		})
	}

	repos := repository.GetGlobalFactory().GetRepositories()
	if _, err := repos.Project.GetByID(req.ProjectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"error":   "unknown_project",
				"message": fmt.Sprintf("project %d does not exist", req.ProjectID),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal"})
	}

	recharge := req.ToModel()
	if err := repos.Recharge.Create(recharge); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal"})
	}

	return c.Status(fiber.StatusCreated).JSON(recharge)
}

// GetRecharges lists recharge records, newest first
func (s *APIServer) GetRecharges(c *fiber.Ctx) error {
	offset := c.QueryInt("offset", 0)
	limit := c.QueryInt("limit", 50)
	if limit > 200 {
		limit = 200
	}

	repos := repository.GetGlobalFactory().GetRepositories()
	recharges, err := repos.Recharge.List(offset, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal"})
	}

	total, err := repos.Recharge.Count()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal"})
	}

	return c.JSON(fiber.Map{
		"recharges": recharges,
		"total":     total,
		"offset":    offset,
		"limit":     limit,
	})
}

// GetRecharge returns one recharge with its error history
func (s *APIServer) GetRecharge(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "bad_request",
			"message": "id must be a positive integer",
		})
	}

	repos := repository.GetGlobalFactory().GetRepositories()
	recharge, err := repos.Recharge.GetByID(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal"})
	}

	errLog, err := repos.Recharge.ErrorsForRecharge(recharge.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal"})
	}

	return c.JSON(fiber.Map{
		"recharge": recharge,
		"errors":   errLog,
	})
}

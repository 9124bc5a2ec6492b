package ginserver

import (
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"rentdesk/internal/app/commands"
	"rentdesk/internal/app/dto"
	"rentdesk/internal/app/handlers/customers"
	"rentdesk/internal/app/queries"
)

type CustomerHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
	Logger   *slog.Logger
}

type createCustomerRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

func (h CustomerHandler) Create(c *gin.Context) {
	var req createCustomerRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, h.Logger, err)
		return
	}
	cmd := customers.CreateCustomerCommand{Name: req.Name, Phone: req.Phone, Email: req.Email}
	result, err := commands.Dispatch[customers.CreateCustomerCommand, *dto.Customer](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h CustomerHandler) List(c *gin.Context) {
	query := customers.ListCustomersQuery{Search: c.Query("search")}
	result, err := queries.Ask[customers.ListCustomersQuery, dto.CustomerCollection](c.Request.Context(), h.Queries, query)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h CustomerHandler) Get(c *gin.Context) {
	result, err := h.get(c)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h CustomerHandler) Stats(c *gin.Context) {
	result, err := h.get(c)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result.Stats)
}

func (h CustomerHandler) get(c *gin.Context) (dto.Customer, error) {
	query := customers.GetCustomerQuery{CustomerID: c.Param("id")}
	return queries.Ask[customers.GetCustomerQuery, dto.Customer](c.Request.Context(), h.Queries, query)
}

var _ CustomerHTTP = CustomerHandler{}

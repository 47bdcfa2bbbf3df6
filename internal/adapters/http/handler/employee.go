package handler

import (
	"errors"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/ogurasousui/employee-api/internal/adapters/http/middleware"
	"github.com/ogurasousui/employee-api/internal/core/employee"
	"github.com/ogurasousui/employee-api/internal/platform/metrics"
)

// EmployeeHandler は社員 API の HTTP 実装です。
type EmployeeHandler struct {
	svc      employee.UseCase
	metrics  *metrics.Metrics
	validate *validator.Validate
}

// NewEmployeeHandler は EmployeeHandler を生成します。m は nil でも構いません。
func NewEmployeeHandler(svc employee.UseCase, m *metrics.Metrics) *EmployeeHandler {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	return &EmployeeHandler{
		svc:      svc,
		metrics:  m,
		validate: validate,
	}
}

// Register は /api/employees 配下のルートを登録します。
func (h *EmployeeHandler) Register(g *echo.Group) {
	g.POST("", h.CreateEmployee)
	g.GET("", h.GetAllEmployees)
	g.GET("/search", h.SearchEmployee)
	g.GET("/:id", h.GetEmployeeByID)
	g.PUT("/:id", h.UpdateEmployee)
	g.DELETE("/:id", h.DeleteEmployee)
}

// CreateEmployee は社員を作成し 201 を返します。メールアドレスが重複していれば 409 です。
func (h *EmployeeHandler) CreateEmployee(c echo.Context) error {
	req, err := h.bind(c)
	if err != nil {
		return err
	}

	created, err := h.svc.SaveEmployee(c.Request().Context(), req.toEmployee())
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeAlreadyExists) {
			h.metrics.IncEmailConflicts()
		}
		return err
	}

	h.metrics.IncEmployeesCreated()
	middleware.GetLogger(c).Info().Int64("employee_id", created.ID).Msg("employee created")

	return c.JSON(http.StatusCreated, toEmployeeResponse(created))
}

// GetAllEmployees は全社員を返します。0 件なら空配列です。
func (h *EmployeeHandler) GetAllEmployees(c echo.Context) error {
	list, err := h.svc.GetAllEmployees(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toEmployeeResponses(list))
}

// GetEmployeeByID は ID で社員を返します。
func (h *EmployeeHandler) GetEmployeeByID(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	found, err := h.svc.GetEmployeeByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toEmployeeResponse(found))
}

// SearchEmployee は firstName と lastName が一致する社員を 1 件返します。
func (h *EmployeeHandler) SearchEmployee(c echo.Context) error {
	firstName := strings.TrimSpace(c.QueryParam("firstName"))
	lastName := strings.TrimSpace(c.QueryParam("lastName"))
	if firstName == "" || lastName == "" {
		return newHTTPError(http.StatusBadRequest, "firstName and lastName are required")
	}

	found, err := h.svc.FindEmployeeByName(c.Request().Context(), firstName, lastName)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toEmployeeResponse(found))
}

// UpdateEmployee は既存社員の氏名とメールアドレスを置き換えます。
// 存在しない場合は更新を行わず 404 を返します。
func (h *EmployeeHandler) UpdateEmployee(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	req, err := h.bind(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()

	stored, err := h.svc.GetEmployeeByID(ctx, id)
	if err != nil {
		return err
	}

	stored.FirstName = req.FirstName
	stored.LastName = req.LastName
	stored.Email = req.Email

	updated, err := h.svc.UpdateEmployee(ctx, stored)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toEmployeeResponse(updated))
}

// DeleteEmployee は社員を削除し、本文なしの 200 を返します。
func (h *EmployeeHandler) DeleteEmployee(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	if err := h.svc.DeleteEmployee(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusOK)
}

func (h *EmployeeHandler) bind(c echo.Context) (employeeRequest, error) {
	var req employeeRequest
	if err := (&echo.DefaultBinder{}).BindBody(c, &req); err != nil {
		return req, newHTTPError(http.StatusBadRequest, "malformed request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return req, newHTTPError(http.StatusBadRequest, validationMessage(err))
	}
	return req, nil
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "invalid request body"
	}

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field()+" must be at most "+fe.Param()+" characters")
	}
	return strings.Join(fields, "; ")
}

func parseID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, employee.ErrInvalidID
	}
	return id, nil
}

package handler

import (
	"errors"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/sangkips/ventapett-pos/internal/application/service"
	"github.com/sangkips/ventapett-pos/internal/domain/entity"
	"github.com/sangkips/ventapett-pos/internal/presentation/http/dto/response"
	"github.com/sangkips/ventapett-pos/internal/presentation/http/middleware"
	"github.com/sangkips/ventapett-pos/pkg/apperror"
)

func init() {
	// binding errors report the json key instead of the Go field name
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "" || name == "-" {
				return fld.Name
			}
			return name
		})
	}
}

// GetPrincipal extracts the authenticated user from the Gin context
func GetPrincipal(c *gin.Context) (entity.Principal, bool) {
	v, exists := c.Get(middleware.PrincipalKey)
	if !exists {
		return entity.Principal{}, false
	}
	p, ok := v.(entity.Principal)
	return p, ok
}

// principal is GetPrincipal for routes behind AuthMiddleware. It writes the
// 401 itself when the user is missing.
func principal(c *gin.Context) (entity.Principal, bool) {
	p, ok := GetPrincipal(c)
	if !ok {
		response.Unauthorized(c, "Authentication required")
	}
	return p, ok
}

// bindJSON binds the body and writes a 422 with field errors when the binding
// tags fail, or a 400 when the body is not JSON.
func bindJSON(c *gin.Context, req any) bool {
	err := c.ShouldBindJSON(req)
	if err == nil {
		return true
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]apperror.FieldError, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, apperror.FieldError{Field: fe.Field(), Message: service.ValidationMessage(fe)})
		}
		response.ValidationError(c, fields)
		return false
	}

	response.BadRequest(c, "Invalid request body")
	return false
}

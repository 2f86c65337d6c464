package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
)

// LocalCallerID key de Fiber Locals para la identidad de quien ejecuta la petición.
const LocalCallerID = "caller_id"

// TokenVerifier valida un token y devuelve la identidad del usuario (pkg/jwt.Signer).
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// CallerIdentity exige un Bearer token válido y guarda el callerID en c.Locals.
// La identidad es opaca: no hay roles ni permisos.
func CallerIdentity(verifier TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, code := bearerToken(c.Get(fiber.HeaderAuthorization))
		if code != "" {
			return unauthorized(c, code)
		}
		callerID, err := verifier.Verify(token)
		if err != nil {
			return unauthorized(c, "INVALID_TOKEN")
		}
		c.Locals(LocalCallerID, callerID)
		return c.Next()
	}
}

// CallerID devuelve la identidad del contexto (vacía si la autenticación está desactivada).
func CallerID(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalCallerID).(string)
	return s
}

// bearerToken extrae el token del header; si falla devuelve el código de error.
func bearerToken(header string) (string, string) {
	if header == "" {
		return "", "MISSING_TOKEN"
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", "INVALID_TOKEN"
	}
	if token = strings.TrimSpace(token); token == "" {
		return "", "MISSING_TOKEN"
	}
	return token, ""
}

func unauthorized(c *fiber.Ctx, code string) error {
	msg := "token inválido o expirado"
	if code == "MISSING_TOKEN" {
		msg = "Authorization: Bearer <token> requerido"
	}
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: code, Message: msg})
}

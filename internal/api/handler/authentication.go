package handler

import (
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/rfm-segmentation-api/internal/domain"
	"github.com/vfg2006/rfm-segmentation-api/internal/usecases/authenticating"
	"github.com/vfg2006/rfm-segmentation-api/pkg/apiErrors"
)

func Login(service authenticating.Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req domain.LoginRequest

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Formato de requisição inválido", nil)
			return
		}

		token, err := service.LoginUser(req.Email, req.Password)
		if err != nil {
			handleLoginError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, domain.LoginResponse{Token: token})
	}
}

func handleLoginError(w http.ResponseWriter, err error) {
	if authenticating.IsCredentialsError(err) {
		// Mensagem genérica para não revelar quais contas existem
		apiErrors.WriteError(w, authenticating.CodeFor(err), "Email ou senha inválidos", nil)
		return
	}

	logrus.WithError(err).Error("Erro inesperado no login")
	apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao realizar login", nil)
}

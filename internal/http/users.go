package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"medirural/internal/domain"
	"medirural/internal/service"
)

// @Summary Register
// @Tags users
// @Accept json
// @Produce json
// @Param input body service.RegisterInput true "Account"
// @Success 201 {object} domain.User
// @Failure 400 {object} map[string]any
// @Failure 409 {object} map[string]string
// @Router /users/register [post]
func (s *Server) register(c *gin.Context) {
	var req service.RegisterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c)
		return
	}
	u, err := s.accounts.Register(c.Request.Context(), req)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, u)
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// @Summary Login
// @Description Returns a token and also sets it as an httpOnly cookie.
// @Tags users
// @Accept json
// @Produce json
// @Param input body loginReq true "Credentials"
// @Success 200 {object} map[string]any
// @Failure 401 {object} map[string]string
// @Router /users/login [post]
func (s *Server) login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c)
		return
	}
	token, u, err := s.accounts.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(tokenCookie, token, int(s.tokens.TTL().Seconds()), "/", "", s.opts.SecureCookie, true)
	c.JSON(http.StatusOK, gin.H{"token": token, "user": u})
}

// @Summary Logout
// @Tags users
// @Produce json
// @Success 200 {object} map[string]string
// @Router /users/logout [get]
func (s *Server) logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(tokenCookie, "", -1, "/", "", s.opts.SecureCookie, true)
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// @Summary Current user profile
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} domain.User
// @Router /users/profile [get]
func (s *Server) getProfile(c *gin.Context) {
	u, err := s.accounts.Profile(c.Request.Context(), actorFrom(c))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

type profileReq struct {
	Name                    *string                         `json:"name"`
	Phone                   *string                         `json:"phone"`
	Address                 *domain.Address                 `json:"address"`
	SubscriptionPreferences *domain.SubscriptionPreferences `json:"subscriptionPreferences"`
}

// @Summary Update profile
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param input body profileReq true "Changed fields"
// @Success 200 {object} domain.User
// @Failure 400 {object} map[string]any
// @Router /users/profile [put]
func (s *Server) updateProfile(c *gin.Context) {
	var req profileReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c)
		return
	}
	u, err := s.accounts.UpdateProfile(c.Request.Context(), actorFrom(c), service.ProfileUpdate{
		Name:                    req.Name,
		Phone:                   req.Phone,
		Address:                 req.Address,
		SubscriptionPreferences: req.SubscriptionPreferences,
	})
	if err != nil {
		s.respondError(c, err)
		return
	}
	if u.Role == domain.RoleSupplier && s.hub != nil {
		if n := s.hub.MoveSupplier(u.ID, u.Address.Pincode); n > 0 {
			s.logger.WithFields(logrus.Fields{"user_id": u.ID, "pincode": u.Address.Pincode, "connections": n}).
				Info("Supplier feed moved to new pincode")
		}
	}
	c.JSON(http.StatusOK, u)
}

// @Summary Own prescriptions
// @Tags prescriptions
// @Produce json
// @Security BearerAuth
// @Param status query string false "pending, approved or rejected"
// @Success 200 {array} domain.Prescription
// @Router /users/prescriptions [get]
func (s *Server) listPrescriptions(c *gin.Context) {
	list, err := s.accounts.ListPrescriptions(c.Request.Context(), actorFrom(c), domain.PrescriptionStatus(c.Query("status")))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

type prescriptionReq struct {
	ImageURL string `json:"imageUrl"`
}

// @Summary Upload prescription
// @Tags prescriptions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param input body prescriptionReq true "Prescription image"
// @Success 201 {object} domain.Prescription
// @Failure 400 {object} map[string]any
// @Router /users/prescriptions [post]
func (s *Server) addPrescription(c *gin.Context) {
	var req prescriptionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c)
		return
	}
	p, err := s.accounts.AddPrescription(c.Request.Context(), actorFrom(c), req.ImageURL)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// @Summary Users with pending prescriptions
// @Tags prescriptions
// @Produce json
// @Security BearerAuth
// @Success 200 {array} service.PendingPrescriptions
// @Failure 403 {object} map[string]string
// @Router /admin/prescriptions/pending [get]
func (s *Server) pendingPrescriptions(c *gin.Context) {
	list, err := s.accounts.PendingPrescriptions(c.Request.Context(), actorFrom(c))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

type reviewReq struct {
	Status          domain.PrescriptionStatus `json:"status"`
	RejectionReason string                    `json:"rejectionReason"`
}

// @Summary Approve or reject a prescription
// @Tags prescriptions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param userId path string true "User ID"
// @Param prescriptionId path string true "Prescription ID"
// @Param input body reviewReq true "Decision"
// @Success 200 {object} domain.Prescription
// @Failure 400 {object} map[string]any
// @Failure 404 {object} map[string]string
// @Router /admin/users/{userId}/prescriptions/{prescriptionId} [put]
func (s *Server) reviewPrescription(c *gin.Context) {
	var req reviewReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c)
		return
	}
	p, err := s.accounts.ReviewPrescription(c.Request.Context(), actorFrom(c), c.Param("userId"), c.Param("prescriptionId"), req.Status, req.RejectionReason)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

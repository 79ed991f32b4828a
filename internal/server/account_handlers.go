package server

import (
	"learnfromus/internal/models"

	"github.com/gofiber/fiber/v2"
)

// UpdateProfile handles PATCH /api/account/profile
// @Summary Change the display name
// @Description The display name is embedded in bearer token claims, so a
// fresh token is returned with the updated user.
// @Tags account
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{name=string} true "New display name"
// @Success 200 {object} object{token=string,user=models.User}
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /account/profile [patch]
func (s *Server) UpdateProfile(c *fiber.Ctx) error {
	var req struct {
		Name string `json:"name"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	result, err := s.userService.UpdateDisplayName(c.Context(), currentUserID(c), req.Name)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"token": result.Token,
		"user":  result.User,
	})
}

// UpdatePassword handles PATCH /api/account/password
// @Summary Change the password
// @Tags account
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{currentPassword=string,newPassword=string} true "Password change"
// @Success 200 {object} object{message=string}
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /account/password [patch]
func (s *Server) UpdatePassword(c *fiber.Ctx) error {
	var req struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if err := s.userService.UpdatePassword(c.Context(), currentUserID(c), req.CurrentPassword, req.NewPassword); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Password updated."})
}

// DeleteAccount handles DELETE /api/account
// @Summary Delete the authenticated account
// @Description Posts, tag links and follow edges in both directions are
// removed with the account.
// @Tags account
// @Produce json
// @Security BearerAuth
// @Success 200 {object} object{message=string}
// @Router /account [delete]
func (s *Server) DeleteAccount(c *fiber.Ctx) error {
	if err := s.userService.DeleteAccount(c.Context(), currentUserID(c)); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Account deleted."})
}

// GetFollowing handles GET /api/account/following
// @Summary The users you follow plus their combined feed
// @Tags account
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.FollowingOverview
// @Router /account/following [get]
func (s *Server) GetFollowing(c *fiber.Ctx) error {
	overview, err := s.userService.GetFollowingOverview(c.Context(), currentUserID(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	if overview.Posts == nil {
		overview.Posts = []*models.Post{}
	}
	return c.JSON(overview)
}

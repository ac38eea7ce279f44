package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/roadmap-backend/internal/http/response"
	"github.com/yungbote/roadmap-backend/internal/services"
)

type UserHandler struct {
	userService   services.UserService
	avatarService services.AvatarService
}

func NewUserHandler(userService services.UserService, avatarService services.AvatarService) *UserHandler {
	return &UserHandler{userService: userService, avatarService: avatarService}
}

// GET /api/users
func (uh *UserHandler) List(c *gin.Context) {
	out, err := uh.userService.List(c.Request.Context())
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, out)
}

// GET /api/users/:id
func (uh *UserHandler) Get(c *gin.Context) {
	id, err := uintParam(c, "id")
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	u, err := uh.userService.Get(c.Request.Context(), id)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, u)
}

// POST /api/users
// body: { "email", "display_name", "password", "role" }
func (uh *UserHandler) Create(c *gin.Context) {
	var in services.UserInput
	if err := bindJSON(c, &in); err != nil {
		response.RespondErr(c, err)
		return
	}
	u, err := uh.userService.Create(c.Request.Context(), in)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondCreated(c, u)
}

// PUT /api/users/:id
func (uh *UserHandler) Update(c *gin.Context) {
	id, err := uintParam(c, "id")
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	var in services.UserInput
	if err := bindJSON(c, &in); err != nil {
		response.RespondErr(c, err)
		return
	}
	u, err := uh.userService.Update(c.Request.Context(), id, in)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, u)
}

// DELETE /api/users/:id
func (uh *UserHandler) Delete(c *gin.Context) {
	id, err := uintParam(c, "id")
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	if err := uh.userService.Delete(c.Request.Context(), id); err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

// GET /api/users/:id/avatar
func (uh *UserHandler) Avatar(c *gin.Context) {
	id, err := uintParam(c, "id")
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	png, err := uh.avatarService.Render(c.Request.Context(), id)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	c.Header("Cache-Control", "private, max-age=3600")
	c.Data(http.StatusOK, "image/png", png)
}

package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/pkg/logging"
	"github.com/wyfcoding/pkg/response"

	"github.com/wyfcoding/usermanagement/internal/user/application"
	"github.com/wyfcoding/usermanagement/internal/user/domain"
)

// Handler HTTP 处理器
type Handler struct {
	auth  *application.AuthCommandService
	admin *application.AdminCommandService
	query *application.UserQueryService
}

// NewHandler 创建 HTTP 处理器实例
func NewHandler(
	auth *application.AuthCommandService,
	admin *application.AdminCommandService,
	query *application.UserQueryService,
) *Handler {
	return &Handler{auth: auth, admin: admin, query: query}
}

// RegisterRoutes 注册路由
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	auth := r.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.POST("/logout", SessionAuth(h.query), h.Logout)
	}

	admin := r.Group("/admin", SessionAuth(h.query), RequireAdmin())
	{
		admin.GET("/users", h.ListUsers)
		admin.GET("/users/:id", h.GetUserByID)
		// gin 的路由树不允许静态段 "email" 与同级的 ":id" 共存，
		// /admin/users/email/:email 用两级参数承接，处理器里校验首段。
		admin.GET("/users/:id/:email", h.GetUserByEmail)
		admin.PUT("/users/:email/role", h.UpdateRole)
		admin.DELETE("/users/:email", h.DeleteUser)
	}
}

// RegisterRequest 注册请求
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Gender   string `json:"gender"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UpdateRoleRequest 角色变更请求
type UpdateRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// UserResponse 用户的对外投影，不含密码摘要
type UserResponse struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Gender    string `json:"gender"`
	Country   string `json:"country"`
	IPAddress string `json:"ip_address"`
	Role      string `json:"role"`
}

func toUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Gender:    u.Gender,
		Country:   u.Country,
		IPAddress: u.IPAddress,
		Role:      string(u.Role),
	}
}

// Register 用户注册
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	_, err := h.auth.Register(c.Request.Context(), application.RegisterCommand{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Gender:   req.Gender,
	})
	if err != nil {
		h.fail(c, err, "registration failed")
		return
	}

	response.Success(c, gin.H{"message": "User registered successfully"})
}

// Login 用户登录
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	result, err := h.auth.Login(c.Request.Context(), application.LoginCommand{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.fail(c, err, "login failed")
		return
	}

	response.Success(c, gin.H{
		"message":    "Login successful",
		"email":      result.Email,
		"token":      result.Token,
		"type":       "Bearer",
		"expires_at": result.ExpiresAt,
	})
}

// Logout 退出登录，删除会话
func (h *Handler) Logout(c *gin.Context) {
	token := c.GetString(sessionTokenKey)
	if err := h.auth.Logout(c.Request.Context(), token); err != nil {
		h.fail(c, err, "logout failed")
		return
	}
	response.Success(c, gin.H{"message": "Logged out"})
}

// ListUsers 列出全部用户
func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.query.ListUsers(c.Request.Context())
	if err != nil {
		h.fail(c, err, "failed to list users")
		return
	}

	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	response.Success(c, out)
}

// GetUserByID 根据ID获取用户
func (h *Handler) GetUserByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid user id", "")
		return
	}

	user, err := h.query.GetUserByID(c.Request.Context(), uint(id))
	if err != nil {
		h.fail(c, err, "failed to fetch user")
		return
	}
	response.Success(c, toUserResponse(user))
}

// GetUserByEmail 根据邮箱获取用户
func (h *Handler) GetUserByEmail(c *gin.Context) {
	if c.Param("id") != "email" {
		response.ErrorWithStatus(c, http.StatusNotFound, "not found", "")
		return
	}

	user, err := h.query.GetUserByEmail(c.Request.Context(), c.Param("email"))
	if err != nil {
		h.fail(c, err, "failed to fetch user")
		return
	}
	response.Success(c, toUserResponse(user))
}

// UpdateRole 变更用户角色
func (h *Handler) UpdateRole(c *gin.Context) {
	var req UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	principal, ok := PrincipalFrom(c)
	if !ok {
		response.ErrorWithStatus(c, http.StatusForbidden, domain.ErrForbidden.Error(), "")
		return
	}

	if err := h.admin.UpdateRole(c.Request.Context(), principal, c.Param("email"), req.Role); err != nil {
		h.fail(c, err, "failed to update role")
		return
	}
	response.Success(c, gin.H{"message": "Role updated successfully"})
}

// DeleteUser 删除用户
func (h *Handler) DeleteUser(c *gin.Context) {
	principal, ok := PrincipalFrom(c)
	if !ok {
		response.ErrorWithStatus(c, http.StatusForbidden, domain.ErrForbidden.Error(), "")
		return
	}

	if err := h.admin.DeleteUser(c.Request.Context(), principal, c.Param("email")); err != nil {
		h.fail(c, err, "failed to delete user")
		return
	}
	response.Success(c, gin.H{"message": "User deleted successfully"})
}

// fail 把领域错误映射为响应码，内部错误不向调用方泄露细节
func (h *Handler) fail(c *gin.Context, err error, logMsg string) {
	status := statusFromError(err)
	if status == http.StatusInternalServerError {
		logging.Error(c.Request.Context(), logMsg, "error", err)
		response.ErrorWithStatus(c, status, "internal server error", "")
		return
	}
	response.ErrorWithStatus(c, status, err.Error(), "")
}

func statusFromError(err error) int {
	switch {
	case errors.Is(err, domain.ErrEmailExists),
		errors.Is(err, domain.ErrSelfAction),
		errors.Is(err, domain.ErrInvalidRole):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

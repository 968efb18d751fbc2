package core

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// NewRouter constructs the Gin engine with routes wired.
func NewRouter(cfg Config, codec *TokenCodec, db *pgxpool.Pool, redisClient *redis.Client) *gin.Engine {
	startedAt := time.Now()
	r := gin.Default()

	r.Use(OriginRefererMiddleware(cfg))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "uptime": time.Since(startedAt).String()})
	})

	userRepo := NewPgUserRepository(db)
	postRepo := NewPgPostRepository(db)
	commentRepo := NewPgCommentRepository(db)
	stats := NewStatsService(redisClient)
	resolver := NewIdentityResolver(codec)
	authService := NewAuthService(userRepo, codec)
	postService := NewPostService(resolver, postRepo, userRepo, stats)
	commentService := NewCommentService(resolver, commentRepo, postRepo)

	api := r.Group("/api/v1")
	{
		api.POST("/auth/signup", func(c *gin.Context) {
			var req struct {
				Username string `json:"username"`
				Password string `json:"password"`
			}
			if err := c.ShouldBindJSON(&req); err != nil {
				respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid json")
				return
			}

			if err := authService.Register(c.Request.Context(), req.Username, req.Password); err != nil {
				if errors.Is(err, ErrDuplicateUser) {
					respondError(c, http.StatusBadRequest, "DUPLICATE_USER", "重複したユーザーが存在します。")
					return
				}
				if errors.Is(err, ErrInvalidCredentials) {
					respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "username, password は必須です")
					return
				}
				respondError(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "failed to create user")
				return
			}

			if err := stats.RecordSignup(c.Request.Context()); err != nil {
				log.Printf("failed to record signup: %v", err)
			}
			c.JSON(http.StatusOK, gin.H{"message": "会員登録に成功しました。"})
		})

		api.POST("/auth/login", func(c *gin.Context) {
			var req struct {
				Username string `json:"username"`
				Password string `json:"password"`
			}
			if err := c.ShouldBindJSON(&req); err != nil {
				respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid json")
				return
			}

			token, err := authService.Login(c.Request.Context(), req.Username, req.Password)
			if err != nil {
				respondError(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "ユーザー名またはパスワードが違います。")
				return
			}

			if err := stats.RecordLogin(c.Request.Context()); err != nil {
				log.Printf("failed to record login: %v", err)
			}
			// The token goes in the Authorization response header; the body
			// repeats it for clients that prefer JSON.
			c.Header("Authorization", token)
			c.JSON(http.StatusOK, gin.H{"message": "ログインに成功しました。", "token": token})
		})

		api.GET("/posts", func(c *gin.Context) {
			posts, err := postService.List(c.Request.Context())
			if err != nil {
				respondError(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "failed to list posts")
				return
			}
			if posts == nil {
				posts = []Post{}
			}
			c.JSON(http.StatusOK, gin.H{"posts": posts})
		})

		api.GET("/posts/:id", func(c *gin.Context) {
			id, ok := pathID(c, "id")
			if !ok {
				return
			}
			post, err := postService.Get(c.Request.Context(), id)
			if err != nil {
				respondPostError(c, err)
				return
			}
			c.JSON(http.StatusOK, post)
		})

		api.POST("/posts", func(c *gin.Context) {
			var req struct {
				Title   string `json:"title"`
				Content string `json:"content"`
			}
			if err := c.ShouldBindJSON(&req); err != nil {
				respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid json")
				return
			}
			post, err := postService.Create(c.Request.Context(), c.GetHeader("Authorization"), req.Title, req.Content)
			if err != nil {
				respondPostError(c, err)
				return
			}
			c.JSON(http.StatusCreated, post)
		})

		api.PUT("/posts/:id", func(c *gin.Context) {
			id, ok := pathID(c, "id")
			if !ok {
				return
			}
			var req struct {
				Title   string `json:"title"`
				Content string `json:"content"`
			}
			if err := c.ShouldBindJSON(&req); err != nil {
				respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid json")
				return
			}
			post, err := postService.Update(c.Request.Context(), c.GetHeader("Authorization"), id, req.Title, req.Content)
			if err != nil {
				respondPostError(c, err)
				return
			}
			c.JSON(http.StatusOK, post)
		})

		api.DELETE("/posts/:id", func(c *gin.Context) {
			id, ok := pathID(c, "id")
			if !ok {
				return
			}
			if err := postService.Delete(c.Request.Context(), c.GetHeader("Authorization"), id); err != nil {
				respondPostError(c, err)
				return
			}
			c.JSON(http.StatusOK, gin.H{"message": "投稿を削除しました。"})
		})

		api.GET("/posts/:id/permission", func(c *gin.Context) {
			id, ok := pathID(c, "id")
			if !ok {
				return
			}
			allowed, err := postService.HasPermission(c.Request.Context(), c.GetHeader("Authorization"), id)
			if err != nil {
				respondPostError(c, err)
				return
			}
			c.JSON(http.StatusOK, gin.H{"has_permission": allowed})
		})

		api.GET("/posts/:id/comments", func(c *gin.Context) {
			id, ok := pathID(c, "id")
			if !ok {
				return
			}
			comments, err := commentService.ListByPost(c.Request.Context(), id)
			if err != nil {
				respondCommentError(c, err)
				return
			}
			if comments == nil {
				comments = []Comment{}
			}
			c.JSON(http.StatusOK, gin.H{"comments": comments})
		})

		api.POST("/posts/:id/comments", func(c *gin.Context) {
			id, ok := pathID(c, "id")
			if !ok {
				return
			}
			var req struct {
				Content string `json:"content"`
			}
			if err := c.ShouldBindJSON(&req); err != nil {
				respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid json")
				return
			}
			comment, err := commentService.Create(c.Request.Context(), c.GetHeader("Authorization"), id, req.Content)
			if err != nil {
				respondCommentError(c, err)
				return
			}
			c.JSON(http.StatusCreated, comment)
		})

		api.PUT("/comments/:id", func(c *gin.Context) {
			id, ok := pathID(c, "id")
			if !ok {
				return
			}
			var req struct {
				Content string `json:"content"`
			}
			if err := c.ShouldBindJSON(&req); err != nil {
				respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid json")
				return
			}
			comment, err := commentService.Update(c.Request.Context(), c.GetHeader("Authorization"), id, req.Content)
			if err != nil {
				respondCommentError(c, err)
				return
			}
			c.JSON(http.StatusOK, comment)
		})

		api.DELETE("/comments/:id", func(c *gin.Context) {
			id, ok := pathID(c, "id")
			if !ok {
				return
			}
			if err := commentService.Delete(c.Request.Context(), c.GetHeader("Authorization"), id); err != nil {
				respondCommentError(c, err)
				return
			}
			c.JSON(http.StatusOK, gin.H{"message": "コメントを削除しました。"})
		})

		api.GET("/comments/:id/permission", func(c *gin.Context) {
			id, ok := pathID(c, "id")
			if !ok {
				return
			}
			allowed, err := commentService.HasPermission(c.Request.Context(), c.GetHeader("Authorization"), id)
			if err != nil {
				respondCommentError(c, err)
				return
			}
			c.JSON(http.StatusOK, gin.H{"has_permission": allowed})
		})

		admin := api.Group("/admin")
		admin.Use(AdminOnly(resolver))
		{
			admin.GET("/stats", func(c *gin.Context) {
				overview, err := stats.Overview(c.Request.Context())
				if err != nil {
					respondError(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "failed to collect stats")
					return
				}
				c.JSON(http.StatusOK, overview)
			})
		}
	}

	return r
}

// pathID parses a positive int64 path parameter, responding 400 on failure.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid id")
		return 0, false
	}
	return id, true
}

// respondPostError maps service errors for post endpoints.
func respondPostError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrMalformedCredential):
		respondError(c, http.StatusBadRequest, "MALFORMED_TOKEN", "トークンが見つかりません。")
	case errors.Is(err, ErrInvalidCredential):
		respondError(c, http.StatusUnauthorized, "INVALID_TOKEN", "トークンが無効です。")
	case errors.Is(err, ErrForbidden):
		respondError(c, http.StatusForbidden, "FORBIDDEN", "この投稿を操作する権限がありません。")
	case errors.Is(err, ErrNotFound):
		respondError(c, http.StatusNotFound, "NOT_FOUND", "選択した投稿が存在しません。")
	case errors.Is(err, ErrValidation):
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	default:
		// Unknown failures are infrastructure problems; never echo them.
		respondError(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "internal server error")
	}
}

// respondCommentError maps service errors for comment endpoints.
func respondCommentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrMalformedCredential):
		respondError(c, http.StatusBadRequest, "MALFORMED_TOKEN", "トークンが見つかりません。")
	case errors.Is(err, ErrInvalidCredential):
		respondError(c, http.StatusUnauthorized, "INVALID_TOKEN", "トークンが無効です。")
	case errors.Is(err, ErrForbidden):
		respondError(c, http.StatusForbidden, "FORBIDDEN", "このコメントを操作する権限がありません。")
	case errors.Is(err, ErrNotFound):
		respondError(c, http.StatusNotFound, "NOT_FOUND", "選択したコメントまたは投稿が存在しません。")
	case errors.Is(err, ErrValidation):
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	default:
		respondError(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "internal server error")
	}
}

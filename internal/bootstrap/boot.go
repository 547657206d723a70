package bootstrap

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"Inkwell/internal/conf"
	"Inkwell/internal/data"
	"Inkwell/internal/dto"
	"Inkwell/internal/handler"
	"Inkwell/internal/middleware"
	"Inkwell/internal/model"
	"Inkwell/internal/repository"
	"Inkwell/internal/service"
	"Inkwell/internal/token"
	"Inkwell/internal/worker"
)

const mailWorkers = 2

// Run starts the server and blocks until SIGINT/SIGTERM.
func Run() {
	// 1. Config
	cfg := conf.LoadConfig()
	setMode(cfg.App.Mode)

	// 2. Data layer
	d, cleanup, err := data.NewData(cfg)
	if err != nil {
		log.Fatalf("❌ data layer init failed: %v", err)
	}
	defer cleanup()

	// 3. Roles and self-follow edges
	if err := Seed(d); err != nil {
		log.Fatalf("❌ seeding failed: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 4. Mail worker
	worker.NewMailWorker(d, worker.NewSender(cfg.Mail)).Start(ctx, mailWorkers)

	// 5. HTTP
	srv := &http.Server{
		Addr:    ":" + cfg.App.Port,
		Handler: NewRouter(cfg, d, d),
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("❌ server failed: %v", err)
		}
	}()
	log.Printf("🚀 Inkwell listening on :%s", cfg.App.Port)

	<-ctx.Done()
	log.Println("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("❌ shutdown: %v", err)
	}
}

func setMode(mode string) {
	switch mode {
	case "production":
		gin.SetMode(gin.ReleaseMode)
	case "testing":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}
}

// Seed inserts or refreshes the roles and gives every user a self-follow.
func Seed(d *data.Data) error {
	if err := repository.NewRoleRepository(d.DB).InsertRoles(); err != nil {
		return err
	}
	n, err := repository.NewFollowRepository(d.DB).AddSelfFollows(time.Now().UTC())
	if err != nil {
		return err
	}
	if n > 0 {
		log.Printf("✅ added %d self-follow edges", n)
	}
	return nil
}

// NewRouter wires services and handlers onto a gin engine. store holds the
// uploaded avatars.
func NewRouter(cfg *conf.Config, d *data.Data, store service.ObjectStore) *gin.Engine {
	// Services
	tokens := token.NewService(cfg.App.SecretKey)
	mailSvc := service.NewMailService(d, cfg.Mail.SubjectPrefix)
	authSvc := service.NewAuthService(d, cfg.App, tokens, mailSvc)
	userSvc := service.NewUserService(d, cfg.App)
	postSvc := service.NewPostService(d, cfg.App)
	commentSvc := service.NewCommentService(d, cfg.App)
	sessionSvc := service.NewSessionService(d)
	avatarSvc := service.NewAvatarService(store, d.DB)

	// Handlers
	renderer := handler.NewRenderer(sessionSvc)
	authH := handler.NewAuthHandler(renderer, authSvc, sessionSvc)
	mainH := handler.NewMainHandler(renderer, userSvc, postSvc, commentSvc)
	avatarH := handler.NewAvatarHandler(renderer, avatarSvc)
	apiH := handler.NewAPIHandler(authSvc, userSvc, postSvc, commentSvc)

	r := gin.Default()
	r.MaxMultipartMemory = service.MaxAvatarSize
	r.Use(middleware.TraceMiddleware())
	r.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Content-Length", "Accept-Encoding", "Authorization"},
		ExposeHeaders: []string{"Content-Length", "Location"},
		MaxAge:        12 * time.Hour,
	}))
	r.NoRoute(handler.NotFound)

	login := middleware.LoginRequired(sessionSvc)

	// Web
	web := r.Group("/")
	web.Use(middleware.Session(sessionSvc, userSvc))
	{
		web.GET("/", mainH.Index)
		web.POST("/", login, mainH.CreatePost)
		web.GET("/all", mainH.ShowAll)
		web.GET("/followed", login, mainH.ShowFollowed)
		web.GET("/user/:username", mainH.User)
		web.POST("/edit-profile", login, mainH.EditProfile)
		web.GET("/edit-profile/:id", login, middleware.AdminRequired(), mainH.EditProfileAdminForm)
		web.POST("/edit-profile/:id", login, middleware.AdminRequired(), mainH.EditProfileAdmin)
		web.GET("/post/:id", mainH.Post)
		web.POST("/post/:id", login, mainH.AddComment)
		web.POST("/edit/:id", login, mainH.EditPost)
		web.GET("/follow/:username", login, middleware.PermissionRequired(model.PermFollow), mainH.Follow)
		web.GET("/unfollow/:username", login, middleware.PermissionRequired(model.PermFollow), mainH.Unfollow)
		web.GET("/followers/:username", mainH.Followers)
		web.GET("/followed-by/:username", mainH.FollowedBy)

		moderate := web.Group("/moderate", login, middleware.PermissionRequired(model.PermModerate))
		moderate.GET("", mainH.Moderate)
		moderate.GET("/enable/:id", mainH.ModerateEnable)
		moderate.GET("/disable/:id", mainH.ModerateDisable)

		web.POST("/avatar", login, avatarH.Upload)
		web.GET("/avatars/*object", avatarH.Serve)

		auth := web.Group("/auth")
		auth.GET("/login", authH.LoginForm)
		auth.POST("/login", authH.Login)
		auth.GET("/logout", login, authH.Logout)
		auth.GET("/register", authH.RegisterForm)
		auth.POST("/register", authH.Register)
		auth.GET("/confirm/:token", login, authH.Confirm)
		auth.GET("/confirm", login, authH.ResendConfirmation)
		auth.GET("/unconfirmed", authH.Unconfirmed)
		auth.GET("/change-password", login, authH.ChangePasswordForm)
		auth.POST("/change-password", login, authH.ChangePassword)
		auth.GET("/reset", authH.PasswordResetRequestForm)
		auth.POST("/reset", authH.PasswordResetRequest)
		auth.GET("/reset/:token", authH.PasswordResetForm)
		auth.POST("/reset/:token", authH.PasswordReset)
		auth.GET("/change_email", login, authH.ChangeEmailRequestForm)
		auth.POST("/change_email", login, authH.ChangeEmailRequest)
		auth.GET("/change_email/:token", login, authH.ChangeEmail)
	}

	// API
	api := r.Group(dto.APIPrefix)
	api.Use(middleware.APIAuth(authSvc))
	{
		api.GET("/token", apiH.Token)
		api.GET("/posts/", apiH.Posts)
		api.POST("/posts/", middleware.PermissionRequired(model.PermWrite), apiH.NewPost)
		api.GET("/posts/:id", apiH.Post)
		api.PUT("/posts/:id", middleware.PermissionRequired(model.PermWrite), apiH.EditPost)
		api.GET("/posts/:id/comments/", apiH.PostComments)
		api.POST("/posts/:id/comments/", middleware.PermissionRequired(model.PermComment), apiH.NewPostComment)
		api.GET("/users/:id", apiH.User)
		api.GET("/users/:id/posts/", apiH.UserPosts)
		api.GET("/users/:id/timeline/", apiH.UserTimeline)
		api.GET("/comments/", apiH.Comments)
		api.GET("/comments/:id", apiH.Comment)
	}

	return r
}

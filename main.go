package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"edoura-server-go/config"
	"edoura-server-go/db"
	"edoura-server-go/handlers"
	"edoura-server-go/logger"
	"edoura-server-go/session"
	"edoura-server-go/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zl, err := logger.New(cfg.Debug)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer zl.Sync() //nolint:errcheck

	kv, err := openStorage(cfg, zl)
	if err != nil {
		zl.Fatal("Failed to open storage", zap.Error(err))
	}
	defer kv.Close()

	ds, err := store.New(kv, zl,
		store.WithEmailDomain(cfg.Teacher.EmailDomain),
		store.WithPasswordLength(cfg.Teacher.PasswordLength),
	)
	if err != nil {
		zl.Fatal("Failed to load data store", zap.Error(err))
	}

	if cfg.Seed {
		checkAndSeedData(ds, zl)
	}

	sessions := session.New(kv, ds, session.AdminCredentials{
		Username: cfg.Admin.Username,
		Password: cfg.Admin.Password,
	}, zl)

	apiHandler := handlers.NewAPIHandler(ds, sessions, zl)

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), logger.GinMiddleware(zl))
	handlers.RegisterRoutes(router, apiHandler)

	zl.Info("Starting server", zap.String("port", cfg.Server.Port), zap.String("storage", cfg.Storage.Driver))
	if err := router.Run(cfg.Server.Port); err != nil {
		zl.Fatal("Failed to run server", zap.Error(err))
	}
}

func openStorage(cfg *config.Config, zl *zap.Logger) (db.KV, error) {
	if cfg.Storage.Driver == "memory" {
		zl.Warn("Using in-memory storage; data is lost on restart")
		return db.NewMemoryStorage(), nil
	}
	client, err := db.InitializeRedisClient(db.RedisOptions{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}, zl)
	if err != nil {
		return nil, err
	}
	return db.NewRedisStorage(client, cfg.Storage.Prefix, zl), nil
}

// checkAndSeedData adds demo data when the store holds no teachers yet.
func checkAndSeedData(ds *store.DataStore, zl *zap.Logger) {
	if n := len(ds.Teachers(store.TeacherFilter{})); n > 0 {
		zl.Info("Existing teachers found, skipping demo data", zap.Int("teachers", n))
		return
	}
	zl.Info("No teachers found, adding demo data")
	seedInitialData(ds, zl)
}

// seedInitialData adds one demo teacher with a grade, three students and a memo.
func seedInitialData(ds *store.DataStore, zl *zap.Logger) {
	teacher, creds, err := ds.CreateTeacher(store.TeacherProfile{
		Name:       "Demo Teacher",
		Subject:    "Mathematics",
		Government: "Cairo",
		City:       "Nasr City",
		Bio:        "Demo account",
	})
	if err != nil {
		zl.Error("Failed to add demo teacher", zap.Error(err))
		return
	}
	zl.Info("Demo teacher created", zap.String("email", creds.Email), zap.String("password", creds.Password))

	grade, err := ds.AddGrade(store.NewGrade{Name: "Demo Grade", GroupName: "A", TeacherID: teacher.ID})
	if err != nil {
		zl.Error("Failed to add demo grade", zap.Error(err))
		return
	}

	for _, name := range []string{"Student One", "Student Two", "Student Three"} {
		st, err := ds.EnrollStudent(store.NewStudent{Name: name, ParentNumber: "01000000000", GradeID: grade.ID})
		if err != nil {
			zl.Error("Failed to add demo student", zap.String("name", name), zap.Error(err))
			continue
		}
		zl.Info("Demo student added", zap.String("studentId", st.StudentID))
	}

	if _, err := ds.AddMemo(store.NewMemo{GradeID: grade.ID, Title: "Field trip", Description: "Demo memo"}); err != nil {
		zl.Error("Failed to add demo memo", zap.Error(err))
	}
	zl.Info("Demo data added")
}

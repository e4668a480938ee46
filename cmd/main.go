package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"VibeJo/config"
	"VibeJo/internal/auth"
	"VibeJo/internal/game/manager"
	"VibeJo/internal/game/table"
	"VibeJo/internal/matchmaker"
	"VibeJo/internal/middleware"
	"VibeJo/internal/results"
	"VibeJo/internal/storage"
	"VibeJo/internal/utils"
	"VibeJo/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfgPath := flag.String("config", "config/config.yaml", "config file")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		utils.Print.Fatal("config", "err", err)
	}
	utils.Init(cfg.Log.Level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	//-------------------------------------------------------
	// 1. 存储：Redis（可选）+ 战绩库
	//-------------------------------------------------------
	var (
		repo  = matchmaker.NewMemoryRepo()
		store = results.NewMemoryStore()
	)
	if cfg.Redis.Enabled {
		if err := storage.InitRedis(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB); err != nil {
			utils.Print.Fatal("redis init failed", "err", err)
		}
		defer storage.Rdb.Close()
		repo = matchmaker.NewRedisRepo(storage.Rdb)
		store = results.NewRedisStore(storage.Rdb)
	}
	if cfg.Database.DSN != "" {
		if err := storage.InitDB(cfg.Database.Driver, cfg.Database.DSN); err != nil {
			utils.Print.Fatal("database init failed", "driver", cfg.Database.Driver, "err", err)
		}
		defer storage.DB.Close()
		if store, err = results.NewSQLStore(ctx, storage.DB, cfg.Database.Driver); err != nil {
			utils.Print.Fatal("results store", "err", err)
		}
	}

	//-------------------------------------------------------
	// 2. 初始化 Hub（必须最先启动）
	//-------------------------------------------------------
	hub := websocket.NewHub()

	//-------------------------------------------------------
	// 3. 初始化 GameManager：宿主 session + 机器人
	//-------------------------------------------------------
	gameMgr := manager.NewGameManager(hub)
	gameMgr.MinDelay = time.Duration(cfg.Bot.MinDelayMs) * time.Millisecond
	gameMgr.MaxDelay = time.Duration(cfg.Bot.MaxDelayMs) * time.Millisecond
	hub.OnIncoming = gameMgr.HandlePlayerMessage

	//-------------------------------------------------------
	// 4. 开桌服务
	//-------------------------------------------------------
	svc := matchmaker.NewService(repo, cfg.Lobby.RoomTTL, hub)

	// 💡 整局结束：写战绩并释放座位（真人固定在 0 号位）
	gameMgr.OnGameEnd = func(roomID string, final *table.State) {
		rctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		res, err := results.RecordFinal(rctx, store, roomID, final)
		switch {
		case errors.Is(err, results.ErrAborted):
			utils.Print.Info("game aborted, not recorded", "room", roomID, "rounds", final.Round)
		case err != nil:
			utils.Print.Error("record result", "room", roomID, "err", err)
		default:
			utils.Print.Info("result recorded", "room", roomID, "winner", res.Winner, "rounds", res.Rounds)
		}
		if _, err := svc.Leave(rctx, final.Players[0].Name); err != nil {
			utils.Print.Warn("release seat", "room", roomID, "err", err)
		}
	}

	// 💡 开桌回调：RoomReady
	svc.OnRoomReady = func(room *matchmaker.Room) {
		if err := gameMgr.StartRoom(room); err != nil {
			utils.Print.Error("StartRoom error", "room", room.ID, "err", err)
		}
	}
	svc.OnRoomClosed = gameMgr.CloseRoom

	//-------------------------------------------------------
	// 5. 初始化 Gin + CORS
	//-------------------------------------------------------
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Authorization"},
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "clients": hub.Count()})
	})

	authGroup := r.Group("/auth")
	{
		ah := auth.NewHandler([]byte(cfg.JWT.Secret))
		authGroup.GET("/nonce", ah.Nonce)
		authGroup.POST("/nonce", ah.Nonce)
		authGroup.POST("/login", ah.Login)
	}

	r.GET("/results/top", results.NewHandler(store).Top)

	//-------------------------------------------------------
	// 6. 需要 JWT 的入口：WebSocket + 开桌
	//-------------------------------------------------------
	secured := r.Group("/", middleware.JwtAuthMiddleware([]byte(cfg.JWT.Secret)))
	{
		secured.GET("/ws", websocket.ServeWS(hub))

		mh := matchmaker.NewHandler(svc)
		secured.POST("/lobby/join", mh.Join)
		secured.POST("/lobby/leave", mh.Leave)
		secured.GET("/lobby/room", mh.Current)
	}

	//-------------------------------------------------------
	// 7. 启动服务器，收到信号后优雅退出
	//-------------------------------------------------------
	srv := &http.Server{Addr: cfg.Server.Port, Handler: r}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		hub.Run()
		return nil
	})
	g.Go(func() error {
		utils.Print.Info("server running", "addr", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		hub.Close()
		return err
	})

	if err := g.Wait(); err != nil {
		utils.Print.Error("server stopped", "err", err)
		os.Exit(1)
	}
	utils.Print.Info("bye")
}

package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/natefinch/lumberjack"
	"github.com/questgo/server/internal/config"
	coresys "github.com/questgo/server/internal/core/system"
	"github.com/questgo/server/internal/data"
	"github.com/questgo/server/internal/handler"
	gonet "github.com/questgo/server/internal/net"
	"github.com/questgo/server/internal/net/packet"
	"github.com/questgo/server/internal/persist"
	"github.com/questgo/server/internal/scripting"
	"github.com/questgo/server/internal/system"
	"github.com/questgo/server/internal/world"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

func printBanner(serverName string, worlds int) {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Println("\033[36;1m  │\033[0m              questd  v0.1.0               \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  │\033[0m        多人冒險世界 · Go 遊戲伺服器       \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
	fmt.Printf("  \033[1m伺服器:\033[0m %s \033[90m(世界數: %d)\033[0m\n\n", serverName, worlds)
}

// displayWidth counts CJK runes as two columns.
func displayWidth(s string) int {
	n := 0
	for _, r := range s {
		if r > 0x7F {
			n += 2
		} else {
			n++
		}
	}
	return n
}

func printSection(title string) {
	lineLen := 46 - displayWidth(title) - 1
	if lineLen < 3 {
		lineLen = 3
	}
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := fmt.Sprintf("%d", count)
	dotsLen := 42 - displayWidth(label) - len(numStr)
	if dotsLen < 3 {
		dotsLen = 3
	}
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), numStr)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

func printWarn(msg string) {
	fmt.Printf("  \033[33m!\033[0m %s\n", msg)
}

func printReady(msg string) {
	fmt.Printf("  \033[32m▶\033[0m %s\n", msg)
}

// ── Main server logic ─────────────────────────────────────────────

func run() error {
	// 1. Load config
	cfgPath := "config/server.toml"
	if p := os.Getenv("QUESTD_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	// 2. Logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	printBanner(cfg.Server.Name, cfg.World.Count)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	// 3. Static data
	printSection("資料載入")
	m, err := data.LoadMap(cfg.World.MapPath)
	if err != nil {
		// Worlds without a map never become ready and refuse every connection.
		log.Error("地圖載入失敗", zap.String("path", cfg.World.MapPath), zap.Error(err))
		printWarn("地圖載入失敗，世界不會開放")
		m = nil
	} else {
		printStat("地圖寬度", m.Width)
		printStat("地圖高度", m.Height)
		printStat("巡邏區域", len(m.RoamingAreas))
		printStat("檢查點", m.CheckpointCount())
	}
	props, err := data.LoadProperties(cfg.World.PropertiesPath)
	if err != nil {
		return fmt.Errorf("properties: %w", err)
	}
	printStat("怪物種類", props.Count())

	// 4. Combat formulas
	engine, err := scripting.NewEngine(cfg.Scripting.Dir, rng, log)
	if err != nil {
		return fmt.Errorf("scripting: %w", err)
	}
	defer engine.Close()
	printOK("戰鬥公式已載入")
	fmt.Println()

	// 5. Worlds
	printSection("世界初始化")
	start := time.Now()
	worlds := make([]*world.World, 0, cfg.World.Count)
	for i := 0; i < cfg.World.Count; i++ {
		opts := world.Options{
			ID:                fmt.Sprintf("world%d", i+1),
			Capacity:          cfg.World.PlayersPerWorld,
			IdleTimeout:       cfg.World.IdleTimeout,
			RoamInterval:      cfg.World.RoamInterval,
			RespawnDelay:      cfg.World.RespawnDelay,
			ReturnDelay:       cfg.World.ReturnDelay,
			RegenInterval:     cfg.World.RegenInterval,
			PotionDuration:    cfg.World.PotionDuration,
			ItemBlinkDelay:    cfg.World.ItemBlinkDelay,
			ItemBlinkDuration: cfg.World.ItemBlinkDuration,
			ChaseLimit:        cfg.World.ChaseLimit,
		}
		worlds = append(worlds, world.NewWorld(opts, m, props, engine, rng, start, log))
	}
	dir := world.NewDirectory(worlds, log)
	printStat("世界", len(worlds))
	printStat("每世界人數上限", cfg.World.PlayersPerWorld)
	fmt.Println()

	// 6. Shared population metrics (optional)
	var reporter system.TotalReporter
	if cfg.Metrics.Enabled {
		printSection("人數統計")
		db, err := persist.NewDB(ctx, cfg.Metrics, log)
		if err != nil {
			return fmt.Errorf("metrics db: %w", err)
		}
		defer db.Close()
		if err := persist.RunMigrations(ctx, db.Pool, log); err != nil {
			return fmt.Errorf("migrations: %w", err)
		}
		rep := persist.NewReporter(persist.NewPopulationRepo(db), cfg.Server.Name, log)
		go rep.Run(ctx, cfg.Network.PopulationInterval)
		reporter = rep
		printOK("跨伺服器人數同步已啟用")
		fmt.Println()
	}

	// 7. Message registry
	reg := packet.NewRegistry(packet.ClientSchema, log)
	handler.RegisterAll(reg, &handler.Deps{Worlds: dir, Log: log})

	// 8. Network
	srv, err := gonet.NewServer(gonet.ServerOptions{
		BindAddress: cfg.Network.BindAddress,
		WSPath:      cfg.Server.WSPath,
		StatusPath:  cfg.Server.StatusPath,
		Session: gonet.SessionOptions{
			InQueueSize:  cfg.Network.InQueueSize,
			OutQueueSize: cfg.Network.OutQueueSize,
			WriteTimeout: cfg.Network.WriteTimeout,
			ReadLimit:    cfg.Network.ReadLimit,
		},
	}, log)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	go srv.AcceptLoop()

	// 9. Systems
	store := gonet.NewSessionStore()
	runner := coresys.NewRunner()
	runner.Register(system.NewInputSystem(srv, reg, store, dir, cfg.Network.MaxMessagesPerTick, log))
	runner.Register(system.NewTimerSystem(dir, nil))
	runner.Register(system.NewPopulationSystem(dir, srv, reporter, cfg.Network.PopulationInterval))
	runner.Register(system.NewOutputSystem(store))

	// 10. Game loop
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(cfg.Network.TickRate)
	defer ticker.Stop()

	printSection("伺服器就緒")
	printReady(fmt.Sprintf("監聽位址 %s", srv.Addr().String()))
	printReady(fmt.Sprintf("遊戲迴圈啟動 (tick: %s)", cfg.Network.TickRate))
	fmt.Println()

	for {
		select {
		case <-ticker.C:
			runner.Tick(cfg.Network.TickRate)

		case sig := <-shutdownCh:
			log.Info("收到關閉信號", zap.String("signal", sig.String()))
			dir.Stop()
			shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Warn("網路關閉逾時", zap.Error(err))
			}
			done()
			cancel()
			log.Info("伺服器已停止")
			return nil
		}
	}
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(strings.ToLower(cfg.Level))); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	log, err := zapCfg.Build()
	if err != nil || cfg.File == "" {
		return log, err
	}

	// File output is always JSON, rotated by size.
	fileEnc := zap.NewProductionEncoderConfig()
	fileEnc.EncodeTime = zapcore.ISO8601TimeEncoder
	rotate := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    max(1, cfg.MaxSizeMB),
		MaxBackups: max(0, cfg.MaxBackups),
		MaxAge:     max(0, cfg.MaxAgeDays),
		Compress:   cfg.Compress,
	}
	fileCore := zapcore.NewCore(zapcore.NewJSONEncoder(fileEnc), zapcore.AddSync(rotate), zapCfg.Level)
	return log.WithOptions(zap.WrapCore(func(c zapcore.Core) zapcore.Core {
		return zapcore.NewTee(c, fileCore)
	})), nil
}

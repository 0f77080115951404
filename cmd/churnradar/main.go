package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"churnradar/internal/config"
	"churnradar/internal/server"
	"churnradar/internal/util"
)

var (
	port    = flag.Int("port", 0, "porta do serviço (config.toml tem prioridade quando define port)")
	devMode = flag.Bool("dev", false, "modo de desenvolvimento")
	dataDir = flag.String("dataDir", "", "diretório de dados (sobrescreve o config)")
	source  = flag.String("source", "", "planilha de origem (sobrescreve o config)")
)

func main() {
	flag.Parse()

	fmt.Println("==========================================")
	fmt.Println("  churnradar - insights de clientes")
	fmt.Println("==========================================")

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cfg, info, err := config.LoadConfigWithInfo()
	if err != nil {
		log.Warn().Err(err).Msg("falha ao carregar configuração, usando padrões")
		cfg = config.DefaultConfig()
		info = config.LoadConfigInfo{}
	}

	if *port > 0 && !info.PortSpecified {
		cfg.Server.Port = *port
	}
	if *devMode {
		cfg.Server.DevMode = true
	}
	if *dataDir != "" {
		cfg.Data.DataDir = *dataDir
	}
	if *source != "" {
		cfg.Data.SourceFile = *source
	}
	if cfg.Server.DevMode {
		log = log.Level(zerolog.DebugLevel)
	} else {
		log = log.Level(zerolog.InfoLevel)
	}

	dir, err := config.EnsureDataDir(cfg)
	if err != nil {
		log.Warn().Err(err).Msg("falha ao criar diretório de dados")
	} else {
		log.Info().Str("dataDir", dir).Msg("diretório de dados pronto")
	}

	srv := server.NewServer(cfg, log)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	url := fmt.Sprintf("http://localhost:%d", cfg.Server.Port)

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("servidor iniciando")
		if err := srv.Run(addr); err != nil {
			log.Fatal().Err(err).Msg("falha ao iniciar o servidor")
		}
	}()

	if !cfg.Server.DevMode {
		if err := util.OpenBrowserWithFallback(url); err != nil {
			log.Info().Str("url", url).Msg("não foi possível abrir o navegador, acesse manualmente")
		}
	} else {
		log.Info().Str("url", url).Msg("modo de desenvolvimento")
	}

	fmt.Println("\nCtrl+C para encerrar...")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("encerrando")
}

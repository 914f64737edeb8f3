package main

import (
	"net"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"google.golang.org/grpc"

	"blobwar/internal/bootstrap"
	engineuc "blobwar/internal/usecase/engine"
	engineRPC "blobwar/microservices/proto"
	"blobwar/microservices/usecase"
)

func main() {
	logger := NewLogger()
	defer logger.Sync()

	cfg, err := bootstrap.Setup(".env")
	if err != nil {
		logger.Fatalw("failed to setup configuration", "error", err)
	}

	lis, err := net.Listen("tcp", ":"+cfg.GrpcPort)
	if err != nil {
		logger.Fatalw("cannot listen", "port", cfg.GrpcPort, "error", err)
	}

	// Iterative strategies need a supervisor and are served by the main binary only.
	server := grpc.NewServer()
	engine := engineuc.NewEngineUseCase(cfg.SearchWorkers, nil, logger)
	engineRPC.RegisterEngineServer(server, usecase.NewEngineUseCase(engine, logger))

	go func() {
		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
		<-sigs
		logger.Info("received shutdown signal")
		server.GracefulStop()
	}()

	logger.Infof("engine service listening on :%s", cfg.GrpcPort)
	if err := server.Serve(lis); err != nil {
		logger.Fatalw("grpc server stopped", "error", err)
	}
}

func NewLogger() *zap.SugaredLogger {
	logger, err := zap.NewProduction()
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	return logger.Sugar()
}

package main

import (
	"os"
	"os/signal"
	"syscall"

	"MahoutGolang/internal/config"
	"MahoutGolang/pkg/devicechannel"
	"MahoutGolang/pkg/log"
	"MahoutGolang/pkg/recognizer"
	"MahoutGolang/pkg/redis"
	"MahoutGolang/pkg/transcribe"

	"github.com/joho/godotenv"
)

func main() {
	logger := log.NewLogger()
	if err := godotenv.Load(); err != nil {
		logger.Warnf("No .env file loaded: %v", err)
	}

	fiberApp := config.NewFiber(logger)
	validator := config.NewValidator()
	redisServer := redis.New()
	recognizerClient := recognizer.NewRecognizerClient()
	deviceChannel := devicechannel.NewDeviceChannel()
	transcriber := transcribe.New()

	server, err := config.NewServer(
		config.WithFiber(fiberApp),
		config.WithLogger(logger),
		config.WithValidator(validator),
		config.WithDatabase(),
		config.WithRedisServer(redisServer),
		config.WithS3Client(),
		config.WithRecognizer(recognizerClient),
		config.WithDeviceChannel(deviceChannel),
		config.WithTranscriber(transcriber),
		config.WithMiddleware(),
		config.WithUtils(),
	)
	if err != nil {
		logger.Fatal(err)
	}

	if err := server.RegisterHandler(); err != nil {
		logger.Fatal(err)
	}

	// Telemetry frames are informational only. Draining them keeps the
	// channel's buffer from filling and dropping newer frames.
	go func() {
		for frame := range deviceChannel.Telemetry() {
			logger.WithField("telemetry", string(frame)).Debug("Device telemetry")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.Run(); err != nil {
			logger.Fatalf("Error starting server: %v", err)
		}
	}()

	logger.Info("Server started successfully")

	<-sigChan
	logger.Info("Shutting down server...")

	recognizerClient.Close()
	deviceChannel.Close()
}

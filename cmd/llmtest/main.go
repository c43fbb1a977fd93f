package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/webplotcentersj-hash/clinicasj/cmd/mainconfig"
	"github.com/webplotcentersj-hash/clinicasj/internal/app/bootstrap"
	"github.com/webplotcentersj-hash/clinicasj/internal/booking"
	appconfig "github.com/webplotcentersj-hash/clinicasj/internal/config"
	"github.com/webplotcentersj-hash/clinicasj/internal/conversation"
	"github.com/webplotcentersj-hash/clinicasj/pkg/logging"
)

// script walks the model through a complete appointment request.
var script = []string{
	"Hola, quisiera sacar un turno",
	"Con cardiología",
	"Me llamo Juan Pérez Gómez, DNI 30111222",
	"Mi teléfono es 264 555-0101",
	"El próximo lunes, a la mañana",
	"No tengo email. Es un control anual. Sí, confirmo los datos.",
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := appconfig.Load()
	logger := logging.New("warn")
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	aws, err := mainconfig.BuildAWSClients(ctx, cfg)
	if err != nil {
		log.Fatalf("aws config: %v", err)
	}
	llm, err := bootstrap.BuildLLM(ctx, cfg, aws.Config, logger)
	if err != nil {
		log.Fatalf("llm: %v", err)
	}
	defer llm.Close()

	turns := conversation.NewTurnHandler(conversation.TurnHandlerConfig{
		Client:      llm.Client,
		Model:       llm.Model,
		Timeout:     cfg.ModelTimeout,
		MaxTokens:   int32(cfg.ModelMaxTokens),
		Temperature: float32(cfg.ModelTemperature),
		Logger:      logger,
	})

	rule := strings.Repeat("=", 60)
	fmt.Println(rule)
	fmt.Printf("Scripted intake dialogue (provider=%s model=%s)\n", cfg.LLMProvider, llm.Model)
	fmt.Println(rule)

	var history []conversation.Turn
	for i, utterance := range script {
		fmt.Printf("\n[%d] Usuario: %s\n", i+1, utterance)
		start := time.Now()
		reply, err := turns.Handle(ctx, utterance, history)
		if err != nil {
			if errors.Is(err, conversation.ErrModelUnavailable) {
				fmt.Printf("    ❌ model unavailable: %v\n", err)
				os.Exit(1)
			}
			log.Fatalf("turn failed: %v", err)
		}
		fmt.Printf("    Asistente (%v): %s\n", time.Since(start).Round(time.Millisecond), reply)

		history = append(history, conversation.UserTurn(utterance), conversation.AssistantTurn(reply))

		if cmd, ok := conversation.ParseCommand(reply).(conversation.CreateBookingCommand); ok {
			report(cmd)
			return
		}
	}

	fmt.Println("\n⚠️  The model never emitted a create_booking command")
	os.Exit(2)
}

func report(cmd conversation.CreateBookingCommand) {
	fmt.Println("\n" + strings.Repeat("=", 60))
	req, issues := booking.Validate(booking.NormalizeCandidate(cmd.Payload))
	if len(issues) > 0 {
		fmt.Println("❌ create_booking payload failed validation:")
		for _, issue := range issues {
			fmt.Printf("    - %s: %s\n", issue.Field(), issue.Message)
		}
		os.Exit(3)
	}
	fmt.Println("✅ create_booking payload is valid (not submitted):")
	fmt.Print(booking.FormatSummary(req))
}

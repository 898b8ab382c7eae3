// File: cmd/chat/main.go
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/Infoya/FourSeasonsPOC/config"
	"github.com/Infoya/FourSeasonsPOC/services/assistant"
	"github.com/Infoya/FourSeasonsPOC/services/gateway"
	"github.com/Infoya/FourSeasonsPOC/utils"

	"github.com/joho/godotenv"
)

func main() {
	// Local runs keep the API key in a .env file.
	_ = godotenv.Load()
	config.LoadConfig()
	logger := utils.GetLogger()

	bookingGateway := gateway.NewBookingGateway(config.AppConfig.BookingAPIURL, config.GatewayTimeout())
	catalogGateway := gateway.NewCatalogGateway(
		config.AppConfig.ContentFeedURL,
		config.AppConfig.ReservationURL,
		config.AppConfig.FeedCurrency,
		config.GatewayTimeout(),
	)

	runtime := assistant.NewOpenAIRuntime(config.AppConfig.OpenAIAPIKey, config.AppConfig.AssistantID)
	assistantService := &assistant.DefaultAssistantService{
		Runtime: runtime,
		Dispatcher: &assistant.Dispatcher{
			Booking:      bookingGateway,
			Catalog:      catalogGateway,
			DemoFallback: config.AppConfig.DemoFallback,
		},
		Store:        assistant.NewMemoryConversationStore(),
		PollInterval: config.PollInterval(),
		RunDeadline:  config.RunDeadline(),
	}

	fmt.Println("Welcome to the Four Seasons assistant.")
	fmt.Println("Type 'exit' or 'quit' to leave.")

	scanner := bufio.NewScanner(os.Stdin)
	conversationID := ""

	for {
		fmt.Print("You: ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if strings.EqualFold(input, "exit") || strings.EqualFold(input, "quit") {
			fmt.Println("Thank you for using the Four Seasons assistant. Goodbye!")
			return
		}

		result, err := assistantService.HandleTurn(context.Background(), input, conversationID)
		if err != nil {
			logger.Sugar().Errorf("turn failed: %v", err)
			fmt.Println("Assistant: Sorry, something went wrong with that request.")
			continue
		}

		conversationID = result.ConversationID
		fmt.Println("Assistant:", result.Reply)
	}
}

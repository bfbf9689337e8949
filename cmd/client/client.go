// cmd/client is a CLI for driving a running mimir façade: placing
// orders, cancelling them, and stepping ticks. It speaks the façade's
// JSON/HTTP protocol via resty instead of a raw socket protocol.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/go-resty/resty/v2"
)

func main() {
	server := flag.String("server", "http://localhost:8080", "mimir façade base URL")
	action := flag.String("action", "tick", "place | cancel | tick")
	symbol := flag.String("symbol", "ABC", "order symbol")
	venue := flag.String("venue", "mimir", "order venue")
	side := flag.String("side", "buy", "buy | sell (place only)")
	orderType := flag.String("type", "limit", "market | limit (place only)")
	price := flag.Float64("price", 0, "limit price (place only, required for limit)")
	qty := flag.Float64("qty", 0, "order quantity (place only)")
	orderID := flag.Uint64("order-id", 0, "order id to cancel (cancel only)")
	flag.Parse()

	client := resty.New().
		SetBaseURL(*server).
		SetTimeout(10 * time.Second).
		SetRetryCount(2).
		SetHeader("Content-Type", "application/json")

	var err error
	switch *action {
	case "place":
		err = place(client, *symbol, *venue, *side, *orderType, *price, *qty)
	case "cancel":
		err = cancel(client, *orderID)
	case "tick":
		err = tick(client)
	default:
		err = fmt.Errorf("unknown action %q (want place | cancel | tick)", *action)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, "mimir-client:", err)
		os.Exit(1)
	}
}

func orderTypeString(side, orderType string) (string, error) {
	switch {
	case orderType == "market" && side == "buy":
		return "market_buy", nil
	case orderType == "market" && side == "sell":
		return "market_sell", nil
	case orderType == "limit" && side == "buy":
		return "limit_buy", nil
	case orderType == "limit" && side == "sell":
		return "limit_sell", nil
	default:
		return "", fmt.Errorf("unsupported side/type combination: %s/%s", side, orderType)
	}
}

func place(client *resty.Client, symbol, venue, side, orderType string, price, qty float64) error {
	typ, err := orderTypeString(side, orderType)
	if err != nil {
		return err
	}

	body := map[string]any{
		"order": map[string]any{
			"type":     typ,
			"symbol":   symbol,
			"venue":    venue,
			"quantity": fmt.Sprintf("%g", qty),
		},
	}
	if orderType == "limit" {
		body["order"].(map[string]any)["price"] = fmt.Sprintf("%g", price)
	}

	resp, err := client.R().SetBody(body).Post("/insert_order")
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("insert_order: %s", resp.Status())
	}
	fmt.Println("order placed")
	return nil
}

func cancel(client *resty.Client, orderID uint64) error {
	resp, err := client.R().
		SetBody(map[string]any{"order_id": orderID}).
		Post("/delete_order")
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("delete_order: %s", resp.Status())
	}
	fmt.Println("cancel submitted")
	return nil
}

func tick(client *resty.Client) error {
	resp, err := client.R().Get("/tick")
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("tick: %s", resp.Status())
	}
	fmt.Println(resp.String())
	return nil
}

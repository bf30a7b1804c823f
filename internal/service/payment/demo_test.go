package payment

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
)

func TestCreateCheckoutIssuesUniqueTokens(t *testing.T) {
	lg := slog.New(slog.NewTextHandler(io.Discard, nil))
	p := NewDemoProvider("", lg)

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		result, err := p.CreateCheckout(context.Background(), 100, "GP Chat")
		if err != nil {
			t.Fatalf("create checkout: %v", err)
		}
		if result.Token == "" {
			t.Fatal("empty token")
		}
		if seen[result.Token] {
			t.Fatalf("duplicate token %s", result.Token)
		}
		seen[result.Token] = true
	}
}

func TestCheckoutURLUsesBase(t *testing.T) {
	lg := slog.New(slog.NewTextHandler(io.Discard, nil))
	p := NewDemoProvider("http://localhost:8008/", lg)

	result, err := p.CreateCheckout(context.Background(), 200, "GP Video")
	if err != nil {
		t.Fatalf("create checkout: %v", err)
	}
	if !strings.HasPrefix(result.CheckoutURL, "http://localhost:8008/") {
		t.Fatalf("checkout url = %q", result.CheckoutURL)
	}
	if strings.Contains(result.CheckoutURL, "//"+result.Token) {
		t.Fatalf("double slash in url: %q", result.CheckoutURL)
	}
	if !strings.Contains(result.Instructions, "paid <token>") {
		t.Fatalf("instructions = %q", result.Instructions)
	}
}

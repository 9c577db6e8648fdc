package config

import (
	"strings"
	"testing"
)

func TestEnsureDSNBuildsFromParts(t *testing.T) {
	t.Parallel()

	cfg := DBConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "b2b",
		Password: "p@ss word",
		Name:     "b2b_portal",
		SSLMode:  "disable",
	}
	if err := cfg.ensureDSN(); err != nil {
		t.Fatalf("ensure dsn: %v", err)
	}
	if !strings.HasPrefix(cfg.DSN, "postgres://b2b:") {
		t.Fatalf("unexpected dsn: %s", cfg.DSN)
	}
	if !strings.Contains(cfg.DSN, "sslmode=disable") {
		t.Fatalf("missing sslmode: %s", cfg.DSN)
	}
}

func TestEnsureDSNReportsMissingParts(t *testing.T) {
	t.Parallel()

	cfg := DBConfig{Host: "localhost"}
	err := cfg.ensureDSN()
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "B2B_DB_USER") || !strings.Contains(err.Error(), "B2B_DB_NAME") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestEnsureDSNKeepsExplicitDSN(t *testing.T) {
	t.Parallel()

	cfg := DBConfig{DSN: "postgres://u@h/db"}
	if err := cfg.ensureDSN(); err != nil {
		t.Fatalf("ensure dsn: %v", err)
	}
	if cfg.DSN != "postgres://u@h/db" {
		t.Fatalf("dsn mutated: %s", cfg.DSN)
	}
}

func TestShopifyAdminGraphQLURL(t *testing.T) {
	t.Parallel()

	cfg := ShopifyConfig{ShopDomain: "acme.myshopify.com", APIVersion: "2024-10"}
	want := "https://acme.myshopify.com/admin/api/2024-10/graphql.json"
	if got := cfg.AdminGraphQLURL(); got != want {
		t.Fatalf("unexpected url: %s", got)
	}
}

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigFromAppliesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte(`
server:
  port: 9090
gamification:
  default_points:
    post_comment: 20
  max_chain_depth: 3
kafka:
  brokers: ["127.0.0.1:9092"]
`)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if err := LoadConfigFrom(path); err != nil {
		t.Fatalf("LoadConfigFrom() error = %v", err)
	}
	cfg := Cfg

	if cfg.Server.Port != 9090 {
		t.Fatalf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	g := cfg.Gamification
	if g.DefaultPoints.PostComment != 20 || g.DefaultPoints.ReadArticle != 10 {
		t.Fatalf("DefaultPoints = %+v", g.DefaultPoints)
	}
	if g.MaxChainDepth == nil || *g.MaxChainDepth != 3 || g.StreakBonusMultiplier != 2 {
		t.Fatalf("gamification = %+v", g)
	}
	if len(g.StreakMilestones) != 6 || g.StreakMilestones[1] != 7 {
		t.Fatalf("StreakMilestones = %v", g.StreakMilestones)
	}
	if cfg.KafkaActivityConsumer.Topic != "gamification.activity" || cfg.KafkaNotificationProducer.Topic != "gamification.notification" {
		t.Fatalf("kafka topics = %q %q", cfg.KafkaActivityConsumer.Topic, cfg.KafkaNotificationProducer.Topic)
	}
	if len(cfg.Kafka.Brokers) != 1 {
		t.Fatalf("Kafka.Brokers = %v", cfg.Kafka.Brokers)
	}
}

func TestLoadConfigFromMissingFile(t *testing.T) {
	if err := LoadConfigFrom(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatalf("LoadConfigFrom() error = nil for missing file")
	}
}

func TestLoadConfigFromKeepsZeroChainDepth(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("gamification:\n  max_chain_depth: 0\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if err := LoadConfigFrom(path); err != nil {
		t.Fatalf("LoadConfigFrom() error = %v", err)
	}
	if d := Cfg.Gamification.MaxChainDepth; d == nil || *d != 0 {
		t.Fatalf("MaxChainDepth = %v, want explicit 0", d)
	}
}

package lamportmt

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	SetLogger(NewZapLogger(zap.New(core)))
	defer SetLogger(nil)

	log.Logf("Regenerating tree of %s", testAddress)
	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("Logged %d entries", len(entries))
	}
	if entries[0].Message != "Regenerating tree of "+testAddress ||
		entries[0].LoggerName != "lamportmt" {
		t.Fatalf("Logged %+v", entries[0])
	}

	SetLogger(nil)
	log.Logf("dropped")
	if logs.Len() != 1 {
		t.Fatalf("Disabled logger still logs")
	}
}

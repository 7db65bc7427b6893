package cmd

import (
	"bufio"
	"strings"
	"testing"
	"time"

	"github.com/triahq/tria/internal/entity"
)

func TestDashboardBeforeInit(t *testing.T) {
	setupTestEnv(t)

	out := captureOutput(t, func() error { return runDashboard(nil, nil) })
	if !strings.Contains(out, "tria init") {
		t.Errorf("expected init hint:\n%s", out)
	}
}

func TestDashboardShowsWorkspaceAndCounts(t *testing.T) {
	setupTestEnv(t)

	captureOutput(t, func() error {
		return runInitWithReader(bufio.NewReader(strings.NewReader("Ava\nvanlife\n")))
	})
	seedItem(t, entity.Snapshot{
		Kind: entity.KindEmail, Subject: "hello", ReceivedAt: time.Now().UTC(),
	})

	out := captureOutput(t, func() error { return runDashboard(nil, nil) })
	if !strings.Contains(out, "vanlife") {
		t.Errorf("expected workspace name in dashboard:\n%s", out)
	}
	if !strings.Contains(out, "1 open") {
		t.Errorf("expected open count in dashboard:\n%s", out)
	}
}

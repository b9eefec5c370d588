package cmd

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/forkline/order-events-service/internal/domain/model"
	ui "github.com/gizak/termui/v3"
	"github.com/gizak/termui/v3/widgets"
	"github.com/urfave/cli/v2"
)

type statsSnapshot struct {
	Hub      model.HubStats      `json:"hub"`
	Dispatch model.DispatchStats `json:"dispatch"`
}

func monitorCmd() *cli.Command {
	return &cli.Command{
		Name:  "monitor",
		Usage: "Live terminal dashboard over a running server's stats endpoint",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "addr",
				Usage: "Base URL of the server",
				Value: "http://localhost:8090",
			},
		},
		Action: func(c *cli.Context) error {
			return runMonitor(c.String("addr"))
		},
	}
}

func runMonitor(addr string) error {
	if err := ui.Init(); err != nil {
		return fmt.Errorf("init terminal ui: %w", err)
	}
	defer ui.Close()

	hubBox := widgets.NewParagraph()
	hubBox.Title = "Hub"
	hubBox.SetRect(0, 0, 50, 8)

	dispatchBox := widgets.NewParagraph()
	dispatchBox.Title = "Dispatch"
	dispatchBox.SetRect(0, 8, 50, 14)

	client := &http.Client{Timeout: 2 * time.Second}

	render := func() {
		snap, err := fetchStats(client, addr)
		if err != nil {
			hubBox.Text = fmt.Sprintf("unreachable: %v", err)
			dispatchBox.Text = ""
		} else {
			hubBox.Text = fmt.Sprintf(
				"Connections: %d\nChannels:    %d\nUptime:      %s",
				snap.Hub.TotalConnections,
				snap.Hub.TotalChannels,
				snap.Hub.Uptime.Round(time.Second),
			)
			dispatchBox.Text = fmt.Sprintf(
				"Published: %d\nDelivered: %d\nDropped:   %d",
				snap.Dispatch.Published,
				snap.Dispatch.Delivered,
				snap.Dispatch.Dropped,
			)
		}
		ui.Render(hubBox, dispatchBox)
	}

	render()

	events := ui.PollEvents()
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case e := <-events:
			if e.Type == ui.KeyboardEvent && (e.ID == "q" || e.ID == "<C-c>") {
				return nil
			}
		case <-ticker.C:
			render()
		}
	}
}

func fetchStats(client *http.Client, addr string) (*statsSnapshot, error) {
	res, err := client.Get(addr + "/api/stats")
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", res.StatusCode)
	}

	var snap statsSnapshot
	if err := json.NewDecoder(res.Body).Decode(&snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

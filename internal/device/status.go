package device

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Status is the subset of the ESPEasy /json status document the tool
// reads: enough to identify a unit and chase its peer list.
type Status struct {
	System StatusSystem `json:"System"`
	WiFi   StatusWiFi   `json:"WiFi"`
	Nodes  []StatusNode `json:"nodes"`
}

// StatusSystem carries the unit's identity fields.
type StatusSystem struct {
	UnitName   string `json:"Unit Name"`
	UnitNumber int    `json:"Unit Number"`
	Build      string `json:"Git Build"`
}

// StatusWiFi carries the unit's network fields.
type StatusWiFi struct {
	IPAddress string `json:"IP Address"`
	RSSI      int    `json:"RSSI"`
}

// StatusNode is one peer a unit knows about. ESPEasy units gossip
// their peers, which discovery uses to find units that missed a probe.
type StatusNode struct {
	Name string `json:"name"`
	IP   string `json:"ip"`
}

// Name returns the unit's display name, falling back to its IP.
func (s *Status) Name() string {
	if s.System.UnitName != "" {
		return s.System.UnitName
	}
	return s.WiFi.IPAddress
}

// FetchStatus reads a unit's /json status document.
func (c *Client) FetchStatus(ctx context.Context, unit string) (*Status, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL(unit)+"/json", nil)
	if err != nil {
		return nil, &DeviceError{Op: OpConnect, Unit: unit, Type: ErrTypeNetwork, Message: "failed to create request", Err: err}
	}
	c.setAuth(req)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, classifyNetworkError(OpConnect, unit, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, newHTTPError(OpConnect, unit, resp.StatusCode, fmt.Sprintf("status endpoint returned %d", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classifyNetworkError(OpConnect, unit, err)
	}

	var status Status
	if err := json.Unmarshal(body, &status); err != nil {
		return nil, &DeviceError{Op: OpConnect, Unit: unit, Type: ErrTypeHTTP, Message: "invalid status JSON", Err: err}
	}
	return &status, nil
}

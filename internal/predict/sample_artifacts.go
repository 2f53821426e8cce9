package predict

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

func fptr(v float64) *float64 { return &v }
func sptr(v string) *string   { return &v }
func cptr(v int) *int         { return &v }

// WriteSampleArtifacts writes a small hand-built model bundle into dir
// for local development when no trained artifacts are present: lights
// on when the room is dim and occupied, curtain open during daytime
// hours.
func WriteSampleArtifacts(dir string) error {
	ledTree := Tree{Nodes: []treeNode{
		{Feature: "brightness_raw", Threshold: fptr(500), Left: 1, Right: 2},
		{Feature: "occupancy", Equals: sptr("1"), Left: 3, Right: 4},
		{Class: cptr(0)},
		{Class: cptr(1)},
		{Class: cptr(0)},
	}}
	curtainTree := Tree{Nodes: []treeNode{
		{Feature: "hour", Threshold: fptr(6.5), Left: 1, Right: 2},
		{Class: cptr(0)},
		{Feature: "hour", Threshold: fptr(19.5), Left: 3, Right: 4},
		{Class: cptr(1)},
		{Class: cptr(0)},
	}}
	ledEnc := LabelEncoder{Classes: []string{"off", "on"}}
	curtainEnc := LabelEncoder{Classes: []string{"closed", "open"}}

	artifacts := map[string]interface{}{
		"led_pipeline.json":          ledTree,
		"curtain_pipeline.json":      curtainTree,
		"led_label_encoder.json":     ledEnc,
		"curtain_label_encoder.json": curtainEnc,
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create artifact dir: %w", err)
	}
	for name, artifact := range artifacts {
		data, err := json.MarshalIndent(artifact, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal %s: %w", name, err)
		}
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
		log.Printf("predict: wrote sample artifact %s", path)
	}
	return nil
}

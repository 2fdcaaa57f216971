package main

import (
	"fmt"
	"time"

	"github.com/sunlit/persona/internal/autosave"
	"github.com/sunlit/persona/internal/config"
	"github.com/sunlit/persona/internal/gate"
	"github.com/sunlit/persona/internal/persona"
	"github.com/sunlit/persona/internal/storage"
)

// session wires the local stack for a one-shot CLI command: config, storage,
// the restored document behind a manager, the activation gate, and an
// autosaver that the manager notifies on every change. Close flushes pending
// state so a command's edit is on disk before the process exits.
type session struct {
	cfg     config.Config
	store   *storage.Store
	manager *persona.Manager
	gate    *gate.Gate
	saver   *autosave.Saver
}

func openSession() (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	store, err := storage.Open(cfg.Storage.DataDir)
	if err != nil {
		return nil, fmt.Errorf("opening storage: %w", err)
	}

	saver := autosave.New(store, config.AutosaveDelay(cfg, autosave.DefaultDelay))
	doc := autosave.Restore(store, time.Now())
	manager := persona.NewManager(doc, saver.Notify)

	return &session{
		cfg:     cfg,
		store:   store,
		manager: manager,
		gate:    gate.New(store, cfg.Gate.Code),
		saver:   saver,
	}, nil
}

func (s *session) Close() error {
	if err := s.saver.Close(); err != nil {
		s.store.Close()
		return fmt.Errorf("flushing autosave: %w", err)
	}
	return s.store.Close()
}

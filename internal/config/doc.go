// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for easyq.
//
// # Key Types
//
//   - Config: root configuration ([api], [storage], [ui], [log])
//   - ValidationError / ValidateErrors: field-level validation failures
//
// # Usage
//
//	_ = config.LoadDotEnv()
//	cfg, err := config.Load("")
//	if err != nil {
//	    return err
//	}
//	client := api.New(cfg.API.BaseURL).WithTimeout(cfg.Timeout())
//
// Live reload:
//
//	go config.Watch(ctx, path, func(cfg *config.Config, err error) { ... })
package config

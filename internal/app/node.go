package app

import (
	"context"

	"github.com/grindlemire/graft"
	"rulerbuild.com/ruler/internal/adapters/cas"       //nolint:depguard // Wired in app layer
	"rulerbuild.com/ruler/internal/adapters/config"    //nolint:depguard // Wired in app layer
	"rulerbuild.com/ruler/internal/adapters/fs"        //nolint:depguard // Wired in app layer
	"rulerbuild.com/ruler/internal/adapters/logger"    //nolint:depguard // Wired in app layer
	"rulerbuild.com/ruler/internal/adapters/rules"     //nolint:depguard // Wired in app layer
	"rulerbuild.com/ruler/internal/adapters/shell"     //nolint:depguard // Wired in app layer
	"rulerbuild.com/ruler/internal/adapters/telemetry" //nolint:depguard // Wired in app layer
	"rulerbuild.com/ruler/internal/core/ports"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	// App Node
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			rules.NodeID,
			cas.NodeID,
			shell.NodeID,
			fs.HasherNodeID,
			logger.NodeID,
			telemetry.NodeID,
		},
		Run: runAppNode,
	})

	// Components Node
	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
			telemetry.NodeID,
			config.NodeID,
		},
		Run: runComponentsNode,
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.RulesLoader](ctx)
	if err != nil {
		return nil, err
	}

	storeFactory, err := graft.Dep[ports.StoreFactory](ctx)
	if err != nil {
		return nil, err
	}

	executor, err := graft.Dep[ports.Executor](ctx)
	if err != nil {
		return nil, err
	}

	hasher, err := graft.Dep[ports.Fingerprinter](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	tel, err := graft.Dep[ports.Telemetry](ctx)
	if err != nil {
		return nil, err
	}

	return New(loader, storeFactory, executor, hasher, log, tel), nil
}

func runComponentsNode(ctx context.Context) (*Components, error) {
	application, err := graft.Dep[*App](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	tel, err := graft.Dep[ports.Telemetry](ctx)
	if err != nil {
		return nil, err
	}

	settings, err := graft.Dep[config.Settings](ctx)
	if err != nil {
		return nil, err
	}

	return &Components{
		App:       application,
		Logger:    log,
		Telemetry: tel,
		Settings:  settings,
	}, nil
}

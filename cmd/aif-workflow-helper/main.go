// Copyright 2025 Pete Roden
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Command aif-workflow-helper syncs declarative agent definitions with an
// Azure AI Foundry project.
//
// Usage:
//
//	aif-workflow-helper upload-all ./agents --format yaml
//	aif-workflow-helper download-all ./agents --prefix dev- --format md
//	aif-workflow-helper delete my-agent --suffix -staging
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/alecthomas/kong"

	"github.com/peteroden/aif-workflow-helper/pkg/config"
	"github.com/peteroden/aif-workflow-helper/pkg/foundry"
	"github.com/peteroden/aif-workflow-helper/pkg/httpclient"
	"github.com/peteroden/aif-workflow-helper/pkg/workflow"
)

// CLI defines the command-line interface.
type CLI struct {
	Upload      UploadCmd      `cmd:"" help:"Upload a single agent definition file."`
	UploadAll   UploadAllCmd   `cmd:"" name:"upload-all" help:"Upload every agent definition in a directory, honoring dependencies."`
	Download    DownloadCmd    `cmd:"" help:"Download a single agent to a file."`
	DownloadAll DownloadAllCmd `cmd:"" name:"download-all" help:"Download every matching agent to a directory."`
	Delete      DeleteCmd      `cmd:"" help:"Delete a single agent."`
	DeleteAll   DeleteAllCmd   `cmd:"" name:"delete-all" help:"Delete every matching agent."`
	List        ListCmd        `cmd:"" help:"List matching remote agents."`
	Version     VersionCmd     `cmd:"" help:"Show version information."`

	Endpoint            string `help:"Agent service project endpoint (defaults to $AIF_ENDPOINT)."`
	TenantID            string `name:"tenant-id" help:"Azure tenant id (defaults to $AZURE_TENANT_ID)."`
	ModelDeploymentName string `name:"model-deployment-name" help:"Fallback model deployment for definitions without one (defaults to $AIF_MODEL_DEPLOYMENT_NAME)."`
	Prefix              string `help:"Prefix applied to agent names at the service boundary."`
	Suffix              string `help:"Suffix applied to agent names at the service boundary."`
	Format              string `help:"Agent file format (json, yaml, md)." default:"json"`

	LogLevel  string `help:"Log level (debug, info, warn, error)." default:"info"`
	LogFile   string `help:"Log file path (empty = stderr)."`
	LogFormat string `help:"Log format (simple or verbose)." default:"simple"`
}

// newWorkflow resolves configuration (flags over environment), builds the
// authenticated service client, and wraps it in a Workflow.
func newWorkflow(cli *CLI) (*workflow.Workflow, error) {
	cfg := config.FromEnv()
	if cli.Endpoint != "" {
		cfg.Endpoint = cli.Endpoint
	}
	if cli.TenantID != "" {
		cfg.TenantID = cli.TenantID
	}
	if cli.ModelDeploymentName != "" {
		cfg.ModelDeploymentName = cli.ModelDeploymentName
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cred, err := azidentity.NewDefaultAzureCredential(&azidentity.DefaultAzureCredentialOptions{
		TenantID: cfg.TenantID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build Azure credential: %w", err)
	}

	client, err := foundry.NewClient(cfg.Endpoint,
		foundry.WithCredential(cred),
		foundry.WithHTTPClient(httpclient.New(
			httpclient.WithMaxRetries(cfg.RetryAttempts),
			httpclient.WithBaseDelay(cfg.RetryBaseDelay),
		)),
	)
	if err != nil {
		return nil, err
	}

	return workflow.New(client,
		workflow.WithPrefix(cli.Prefix),
		workflow.WithSuffix(cli.Suffix),
		workflow.WithDefaultModel(cfg.ModelDeploymentName),
	), nil
}

// runContext returns a context cancelled on SIGINT/SIGTERM.
func runContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

// UploadCmd uploads a single agent definition from a directory.
type UploadCmd struct {
	Name string `arg:"" help:"Base agent name (without prefix/suffix); the definition is read from DIR/NAME.<ext>."`
	Dir  string `arg:"" optional:"" default:"." type:"existingdir" help:"Directory holding the definition file."`
}

func (c *UploadCmd) Run(cli *CLI) error {
	w, err := newWorkflow(cli)
	if err != nil {
		return err
	}
	ctx, cancel := runContext()
	defer cancel()
	return w.UploadAgent(ctx, c.Name, c.Dir, cli.Format)
}

// UploadAllCmd uploads every agent definition in a directory.
type UploadAllCmd struct {
	Dir string `arg:"" type:"existingdir" help:"Directory of agent definition files."`
}

func (c *UploadAllCmd) Run(cli *CLI) error {
	w, err := newWorkflow(cli)
	if err != nil {
		return err
	}
	ctx, cancel := runContext()
	defer cancel()
	summary, err := w.UploadAll(ctx, c.Dir, cli.Format)
	if err != nil {
		return err
	}
	return summary.Err()
}

// DownloadCmd downloads a single agent to a file.
type DownloadCmd struct {
	Name string `arg:"" help:"Base agent name (without prefix/suffix)."`
	Dir  string `arg:"" optional:"" default:"." help:"Output directory."`
}

func (c *DownloadCmd) Run(cli *CLI) error {
	w, err := newWorkflow(cli)
	if err != nil {
		return err
	}
	ctx, cancel := runContext()
	defer cancel()
	return w.DownloadAgent(ctx, c.Name, c.Dir, cli.Format)
}

// DownloadAllCmd downloads every matching agent to a directory.
type DownloadAllCmd struct {
	Dir string `arg:"" optional:"" default:"." help:"Output directory."`
}

func (c *DownloadAllCmd) Run(cli *CLI) error {
	w, err := newWorkflow(cli)
	if err != nil {
		return err
	}
	ctx, cancel := runContext()
	defer cancel()
	summary, err := w.DownloadAll(ctx, c.Dir, cli.Format)
	if err != nil {
		return err
	}
	return summary.Err()
}

// DeleteCmd deletes a single agent.
type DeleteCmd struct {
	Name string `arg:"" help:"Base agent name (without prefix/suffix)."`
}

func (c *DeleteCmd) Run(cli *CLI) error {
	w, err := newWorkflow(cli)
	if err != nil {
		return err
	}
	ctx, cancel := runContext()
	defer cancel()
	return w.DeleteAgent(ctx, c.Name)
}

// DeleteAllCmd deletes every agent matching the prefix and suffix.
type DeleteAllCmd struct{}

func (c *DeleteAllCmd) Run(cli *CLI) error {
	w, err := newWorkflow(cli)
	if err != nil {
		return err
	}
	ctx, cancel := runContext()
	defer cancel()
	summary, err := w.DeleteAll(ctx)
	if err != nil {
		return err
	}
	return summary.Err()
}

// ListCmd lists remote agents matching the prefix and suffix.
type ListCmd struct{}

func (c *ListCmd) Run(cli *CLI) error {
	w, err := newWorkflow(cli)
	if err != nil {
		return err
	}
	ctx, cancel := runContext()
	defer cancel()
	agents, err := w.ListAgents(ctx)
	if err != nil {
		return err
	}
	for _, a := range agents {
		fmt.Printf("%-40s %s\n", a.Name, a.ID)
	}
	return nil
}

// VersionCmd shows version information.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	version := "dev"
	if info, ok := debug.ReadBuildInfo(); ok {
		if info.Main.Version != "(devel)" && info.Main.Version != "" {
			version = info.Main.Version
		}
	}
	fmt.Printf("aif-workflow-helper version %s\n", version)
	return nil
}

func main() {
	_ = config.LoadEnvFiles()

	cli := CLI{}
	ctx := kong.Parse(&cli,
		kong.Name("aif-workflow-helper"),
		kong.Description("Sync declarative AI agent definitions with an Azure AI Foundry project."),
		kong.UsageOnError(),
	)

	cleanup, err := initLoggerFromCLI(cli.LogLevel, cli.LogFile, cli.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	if cleanup != nil {
		defer cleanup()
	}

	err = ctx.Run(&cli)
	ctx.FatalIfErrorf(err)
}

// Copyright 2016-2026, Pulumi Corporation.
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

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/hashicorp/hcl/v2"
	"github.com/pkg/errors"
	"github.com/pulumi/pulumi-converter-arm/pkg/codegen/schema"
	"github.com/pulumi/pulumi-converter-arm/pkg/convert"
	"github.com/pulumi/pulumi-converter-arm/pkg/tree"
	"github.com/pulumi/pulumi/sdk/v3/go/common/resource/plugin"
	"github.com/pulumi/pulumi/sdk/v3/go/common/util/cmdutil"
	"github.com/pulumi/pulumi/sdk/v3/go/common/util/logging"
	"github.com/pulumi/pulumi/sdk/v3/go/common/util/rpcutil"
	pulumirpc "github.com/pulumi/pulumi/sdk/v3/proto/go"
	"github.com/spf13/cobra"
	"google.golang.org/grpc"
)

const pluginName = "pulumi-converter-arm"

// maxRPCMessageSize raises the gRPC message size limit from 4MB to 400MB.
const maxRPCMessageSize = 400 * 1024 * 1024

type rootOptions struct {
	logToStderr bool
	verbose     int
	logFlow     bool
	tracing     string
	schemas     []string
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		cmdutil.Exit(err)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   pluginName + " [engine-address]",
		Short: "Convert ARM program trees to Pulumi programs",
		Long: "Convert ARM program trees to Pulumi programs.\n" +
			"\n" +
			"Without a subcommand the converter serves the Pulumi converter protocol and prints the port it\n" +
			"listens on. Package schemas given with --schema are loaded once, before serving.\n",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.InitLogging(opts.logToStderr, opts.verbose, opts.logFlow)
			cmdutil.InitTracing(pluginName, pluginName, opts.tracing)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), opts, args)
		},
	}

	cmd.PersistentFlags().BoolVar(&opts.logToStderr, "logtostderr", false, "Log to stderr instead of to files")
	cmd.PersistentFlags().IntVarP(&opts.verbose, "verbose", "v", 0, "Enable verbose logging (e.g., v=3)")
	cmd.PersistentFlags().BoolVar(&opts.logFlow, "logflow", false, "Flow log settings to child processes")
	cmd.PersistentFlags().StringVar(&opts.tracing, "tracing", "",
		"Emit tracing to a Zipkin-compatible tracing endpoint")
	cmd.PersistentFlags().StringSliceVar(&opts.schemas, "schema", nil,
		"Package schema files, or directories of them, to resolve resource and function types against")

	cmd.AddCommand(newServeCmd(opts), newConvertCmd(opts))
	return cmd
}

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve [engine-address]",
		Short: "Serve the Pulumi converter protocol",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), opts, args)
		},
	}
}

func newConvertCmd(opts *rootOptions) *cobra.Command {
	var languages []string
	var outDir string

	cmd := &cobra.Command{
		Use:   "convert <program>",
		Short: "Convert a program tree file without starting a server",
		Long: "Convert a program tree file without starting a server.\n" +
			"\n" +
			"When more than one language is requested, each language is written to its own subdirectory of\n" +
			"the output directory.\n" +
			"\n" +
			"Valid target languages: typescript, python, go, csharp\n",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, err := loadRegistry(schema.NewLoader(), opts.schemas)
			if err != nil {
				return err
			}
			return runConvert(registry, args[0], languages, outDir, cmd.ErrOrStderr())
		},
	}

	cmd.Flags().StringSliceVar(&languages, "language", []string{defaultLanguage}, "The languages to generate")
	cmd.Flags().StringVar(&outDir, "out", ".", "The directory to write the generated program to")
	return cmd
}

func loadRegistry(loader *schema.Loader, paths []string) (*schema.Registry, error) {
	if len(paths) == 0 {
		return schema.NewRegistry()
	}
	return loader.LoadRegistry(paths...)
}

func serve(ctx context.Context, opts *rootOptions, args []string) error {
	loader := schema.NewLoader()
	registry, err := loadRegistry(loader, opts.schemas)
	if err != nil {
		return err
	}
	logging.V(3).Infof("loaded %d package schemas", len(registry.Packages()))

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()
	// map the context Done channel to the rpcutil boolean cancel channel
	cancelChannel := make(chan bool)
	go func() {
		<-ctx.Done()
		close(cancelChannel)
	}()

	// Optionally pluck out the engine so we stop when it goes away.
	if len(args) > 0 {
		if err := rpcutil.Healthcheck(ctx, args[0], 5*time.Minute, cancel); err != nil {
			return errors.Wrap(err, "could not start health check host RPC server")
		}
	}

	converter := newConverter(registry, loader, cancel)
	handle, err := rpcutil.ServeWithOptions(rpcutil.ServeOptions{
		Cancel: cancelChannel,
		Init: func(srv *grpc.Server) error {
			pulumirpc.RegisterConverterServer(srv, plugin.NewConverterServer(converter))
			return nil
		},
		Options: []grpc.ServerOption{grpc.MaxSendMsgSize(maxRPCMessageSize)},
	})
	if err != nil {
		return errors.Wrap(err, "could not start converter RPC server")
	}

	// Print out the port so that the spawner knows how to reach us.
	fmt.Printf("%d\n", handle.Port)

	if err := <-handle.Done; err != nil {
		return errors.Wrap(err, "converter RPC stopped serving")
	}
	return nil
}

func writeDiagnostics(w io.Writer, path string, source []byte, diags hcl.Diagnostics) error {
	if len(diags) == 0 {
		return nil
	}
	files := map[string]*hcl.File{path: {Bytes: source}}
	return hcl.NewDiagnosticTextWriter(w, files, 0, false).WriteDiagnostics(diags)
}

// runConvert converts the program tree at path to each of the given languages.
func runConvert(registry *schema.Registry, path string, languages []string, outDir string, stderr io.Writer) error {
	source, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "reading program tree %v", path)
	}
	program, diags := tree.Decode(path, source)
	if err := writeDiagnostics(stderr, path, source, diags); err != nil {
		return err
	}
	if diags.HasErrors() {
		return errors.Errorf("could not decode %v", path)
	}

	results, err := convert.ConvertAll(program, registry, languages...)
	if err != nil {
		return err
	}

	var failed []string
	for _, language := range languages {
		result := results[language]
		if err := writeDiagnostics(stderr, path, source, result.Diagnostics); err != nil {
			return err
		}
		if result.Files == nil {
			failed = append(failed, language)
			continue
		}
		dir := outDir
		if len(languages) > 1 {
			dir = filepath.Join(outDir, result.Language)
		}
		if err := writeFiles(dir, result.Files); err != nil {
			return err
		}
	}
	if len(failed) != 0 {
		return errors.Errorf("conversion to %v failed", failed)
	}
	return nil
}

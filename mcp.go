package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/roveo/topo-vba/codegen"
	"github.com/roveo/topo-vba/tools"
)

// serverConfig holds the configuration shared by every command
var serverConfig *tools.Config

// readConfig merges the config file, TOPO_VBA_* environment variables and
// flags into serverConfig.
func readConfig() error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(".topo-vba")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
	}
	viper.SetEnvPrefix("TOPO_VBA")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return errors.Wrap(err, "failed to read config")
		}
	}

	cfg, err := configFromViper(viper.GetViper())
	if err != nil {
		return err
	}
	serverConfig = cfg
	return nil
}

// configFromViper builds the tool configuration from resolved settings.
func configFromViper(v *viper.Viper) (*tools.Config, error) {
	newline, err := parseNewline(v.GetString("newline"))
	if err != nil {
		return nil, err
	}
	// Flag defaults do not count as set, so an unset indent keeps the
	// builder default while an explicit 0 is honoured.
	var indent *int
	if v.IsSet("indent") {
		n := v.GetInt("indent")
		if n < 0 {
			return nil, errors.Newf("indent must not be negative, got %d", n)
		}
		indent = &n
	}

	logger := zap.NewNop()
	if v.GetBool("verbose") {
		logger, err = zap.NewDevelopment()
		if err != nil {
			return nil, errors.Wrap(err, "failed to create logger")
		}
	}

	return &tools.Config{
		SkipPatterns:   v.GetStringSlice("skip"),
		LineLimit:      v.GetInt("limit"),
		Indent:         indent,
		Newline:        newline,
		ValueParameter: v.GetString("value-parameter"),
		Logger:         logger,
	}, nil
}

func parseNewline(s string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "crlf":
		return codegen.NewlineCRLF, nil
	case "lf":
		return codegen.NewlineLF, nil
	}
	return "", errors.WithHint(errors.Newf("unknown newline %q", s), "use crlf or lf")
}

func runSignatures(input tools.SignaturesInput) error {
	output, err := tools.RenderSignatures(serverConfig, input)
	if err != nil {
		return err
	}
	fmt.Print(output)
	return nil
}

func runMemberBlock(input tools.MemberBlockInput) error {
	code, err := tools.RenderMemberBlock(serverConfig, input)
	if err != nil {
		return err
	}
	fmt.Print(code)
	return nil
}

func runPropertyBlock(input tools.PropertyBlockInput) error {
	code, err := tools.RenderPropertyBlock(serverConfig, input)
	if err != nil {
		return err
	}
	fmt.Print(code)
	return nil
}

func runUDT(input tools.UDTInput) error {
	code, err := tools.RenderUDT(serverConfig, input)
	if err != nil {
		return err
	}
	fmt.Println(code)
	return nil
}

func runMCPServer() error {
	defer func() { _ = serverConfig.Logger.Sync() }()

	s := mcp.NewServer(&mcp.Implementation{
		Name:    "topo-vba",
		Version: "1.0.0",
	}, nil)

	mcp.AddTool(s, tools.SignaturesTool(), tools.SignaturesHandler(serverConfig))
	mcp.AddTool(s, tools.MemberBlockTool(), tools.MemberBlockHandler(serverConfig))
	mcp.AddTool(s, tools.PropertyBlockTool(), tools.PropertyBlockHandler(serverConfig))
	mcp.AddTool(s, tools.UDTTool(), tools.UDTHandler(serverConfig))

	serverConfig.Logger.Debug("serving MCP over stdio")
	return s.Run(context.Background(), &mcp.StdioTransport{})
}

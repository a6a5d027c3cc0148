package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/roveo/topo-vba/codegen"
	"github.com/roveo/topo-vba/tools"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "topo-vba",
	Short: "VBA code synthesis tools for editors and LLMs",
	Long: `topo-vba builds VBA source fragments from declaration models: normalized
member signatures, member blocks, property accessors that encapsulate fields,
and user-defined type declarations. Declaration models (*.vbm.yaml, *.vbm.json)
are produced by the editor's resolver. Run as an MCP server or use the
subcommands directly.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return readConfig()
	},
}

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run as MCP server (communicates via stdio)",
	Long: `Run as an MCP server that communicates via stdio.
Exposes tools: signatures, member_block, property_block, udt_declaration.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMCPServer()
	},
}

var signaturesCmd = &cobra.Command{
	Use:   "signatures [path]",
	Short: "Print the normalized signature of every member in the models under path",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "."
		if len(args) > 0 {
			path = args[0]
		}
		filter, _ := cmd.Flags().GetString("filter")
		return runSignatures(tools.SignaturesInput{Path: path, Filter: filter})
	},
}

var blockCmd = &cobra.Command{
	Use:   "block <model> <member>",
	Short: "Print a member rebuilt with its normalized signature",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		content, err := contentFlag(cmd)
		if err != nil {
			return err
		}
		kind, _ := cmd.Flags().GetString("kind")
		acc, _ := cmd.Flags().GetString("accessibility")
		identifier, _ := cmd.Flags().GetString("identifier")
		return runMemberBlock(tools.MemberBlockInput{
			File:          args[0],
			Member:        args[1],
			Kind:          kind,
			Content:       content,
			Accessibility: acc,
			Identifier:    identifier,
		})
	},
}

var encapsulateCmd = &cobra.Command{
	Use:   "encapsulate <model> <field>",
	Short: "Print property accessors encapsulating a field",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		content, err := contentFlag(cmd)
		if err != nil {
			return err
		}
		property, _ := cmd.Flags().GetString("property")
		kind, _ := cmd.Flags().GetString("kind")
		acc, _ := cmd.Flags().GetString("accessibility")
		parameter, _ := cmd.Flags().GetString("parameter")
		return runPropertyBlock(tools.PropertyBlockInput{
			File:          args[0],
			Field:         args[1],
			Property:      property,
			Kind:          kind,
			Content:       content,
			Accessibility: acc,
			Parameter:     parameter,
		})
	},
}

var udtCmd = &cobra.Command{
	Use:   "udt <model> <name>",
	Short: "Print a Type declaration built from module fields",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		specs, _ := cmd.Flags().GetStringArray("member")
		acc, _ := cmd.Flags().GetString("accessibility")
		return runUDT(tools.UDTInput{
			File:          args[0],
			Name:          args[1],
			Accessibility: acc,
			Members:       parseMemberSpecs(specs),
		})
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "Config file (default .topo-vba.yaml in the working directory)")
	flags.StringArray("skip", nil, "Path prefixes to skip by default (can be specified multiple times)")
	flags.Int("limit", tools.DefaultLineLimit, "Maximum lines in signature listings")
	flags.Int("indent", codegen.DefaultIndent, "Spaces before user-defined type members")
	flags.String("newline", "crlf", "Line terminator of generated code: crlf or lf")
	flags.String("value-parameter", codegen.DefaultValueParameter, "Name of the Property Let/Set value parameter")
	flags.BoolP("verbose", "v", false, "Log debug output to stderr")
	_ = viper.BindPFlags(flags)

	signaturesCmd.Flags().StringP("filter", "f", "",
		"Only show members of model files matching this path prefix (file or directory)")

	for _, cmd := range []*cobra.Command{blockCmd, encapsulateCmd} {
		cmd.Flags().String("content", "", "Body placed between the signature and the end statement")
		cmd.Flags().String("content-file", "", "Read the body from a file ('-' for stdin)")
		cmd.Flags().StringP("accessibility", "a", "", "Accessibility of the generated code")
	}
	blockCmd.Flags().String("kind", "", "Member kind when accessors share a name (property-get, property-let, ...)")
	blockCmd.Flags().String("identifier", "", "New name for the member")

	encapsulateCmd.Flags().StringP("property", "p", "", "Property name")
	encapsulateCmd.Flags().String("kind", "all", "Accessor to build: get, let, set or all")
	encapsulateCmd.Flags().String("parameter", "", "Name of the value parameter (overrides --value-parameter)")
	_ = encapsulateCmd.MarkFlagRequired("property")

	udtCmd.Flags().StringArrayP("member", "m", nil, "Member as field or field=Identifier (repeatable, in order)")
	udtCmd.Flags().StringP("accessibility", "a", "", "Accessibility of the type (default Private)")

	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(signaturesCmd)
	rootCmd.AddCommand(blockCmd)
	rootCmd.AddCommand(encapsulateCmd)
	rootCmd.AddCommand(udtCmd)
}

// contentFlag returns --content, or the text of --content-file.
func contentFlag(cmd *cobra.Command) (string, error) {
	content, _ := cmd.Flags().GetString("content")
	file, _ := cmd.Flags().GetString("content-file")
	if file == "" {
		return content, nil
	}
	if content != "" {
		return "", errors.New("--content and --content-file are mutually exclusive")
	}

	var data []byte
	var err error
	if file == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(file)
	}
	if err != nil {
		return "", errors.Wrap(err, "failed to read content")
	}
	return strings.TrimRight(string(data), "\r\n"), nil
}

// parseMemberSpecs reads field or field=Identifier pairs.
func parseMemberSpecs(specs []string) []tools.UDTMemberInput {
	members := make([]tools.UDTMemberInput, 0, len(specs))
	for _, spec := range specs {
		field, identifier, _ := strings.Cut(spec, "=")
		members = append(members, tools.UDTMemberInput{
			Field:      strings.TrimSpace(field),
			Identifier: strings.TrimSpace(identifier),
		})
	}
	return members
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dzjyyds666/qent/parse"
	"github.com/dzjyyds666/qent/parse/qent"
	"github.com/dzjyyds666/qent/pkg"
	"github.com/dzjyyds666/qent/pkg/export"
)

type ParseParams struct {
	Find   string `json:"find"`   // 查找的key
	Value  string `json:"value"`  // 查找key对应的值, 为空时只匹配key
	Input  string `json:"input"`  // 输入文件路径, "-" 表示标准输入
	Output string `json:"output"` // 输出文件地址, 为空时输出到标准输出
	Format string `json:"format"` // 输出格式 json/yaml/toml/summary
}

var params *ParseParams

var parseCmd = &cobra.Command{
	Use:   "parse",
	Short: "Parse a q-entities file and print its entities",
	Args:  cobra.NoArgs,
	RunE:  parseRun,
}

func init() {
	params = &ParseParams{}
	parseCmd.Flags().StringVarP(&params.Find, "find", "f", "", "only keep entities holding this key")
	parseCmd.Flags().StringVarP(&params.Value, "value", "v", "", "value the --find key must have")
	parseCmd.Flags().StringVarP(&params.Input, "input", "i", "", "input file path, - for stdin")
	parseCmd.Flags().StringVarP(&params.Output, "output", "o", "", "output path (default stdout)")
	parseCmd.Flags().StringVarP(&params.Format, "format", "t", "json", "output format: json, yaml, toml, summary")
}

func parseRun(cmd *cobra.Command, args []string) error {
	format, err := export.ParseFormat(params.Format)
	if err != nil {
		return err
	}
	ents, err := loadInput(cmd, params.Input)
	if err != nil {
		return err
	}

	doc := export.NewDocument(ents)
	if params.Find != "" {
		doc = doc.Filter(params.Find, params.Value)
	}

	w, closeFn, err := pkg.WriteOutput(params.Output, cmd.OutOrStdout())
	if err != nil {
		return fmt.Errorf("open output: %w", err)
	}
	if err := export.Encode(w, format, doc); err != nil {
		closeFn()
		return fmt.Errorf("encode %s: %w", format, err)
	}
	return closeFn()
}

// loadInput parses the named file, or stdin for "-", with the configured options.
func loadInput(cmd *cobra.Command, input string) (*qent.Entities, error) {
	if len(input) == 0 {
		return nil, fmt.Errorf("no input file path")
	}
	opts, err := appCfg.ParseOptions()
	if err != nil {
		return nil, err
	}

	var ents *qent.Entities
	if input == "-" {
		data, err := pkg.ReadInput(input, cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		ents, err = qent.Parse(data, opts)
		if err != nil {
			return nil, fmt.Errorf("<stdin>: %w", err)
		}
	} else {
		exist, err := pkg.CheckFileExist(input)
		if err != nil {
			return nil, fmt.Errorf("check file exist: %w", err)
		}
		if !exist {
			return nil, fmt.Errorf("input file %s not exist", input)
		}
		ents, err = parse.File(input, opts)
		if err != nil {
			return nil, err
		}
	}

	logger.Debug("parsed", "input", input, "profile", appCfg.Profile,
		"entities", ents.Len(), "key_values", ents.KeyValueCount())
	return ents, nil
}

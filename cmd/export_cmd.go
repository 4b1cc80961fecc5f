package cmd

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/dzjyyds666/qent/pkg/export"
)

type ExportParams struct {
	Database string `json:"database"` // sqlite数据库文件路径
	Input    string `json:"input"`    // 输入文件路径, "-" 表示标准输入
	Source   string `json:"source"`   // 记录的来源名称, 默认使用输入路径
	Format   string `json:"format"`   // show 子命令的输出格式
}

var exportParams *ExportParams

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Store parsed entities in an SQLite database",
	Long: `Parse an input and store its entities as one run in an SQLite database.
Each run gets a UUID; use 'export runs', 'export show' and 'export delete' to manage them.`,
	Args: cobra.NoArgs,
	RunE: exportRun,
}

var exportRunsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List stored runs",
	Args:  cobra.NoArgs,
	RunE:  exportRunsRun,
}

var exportShowCmd = &cobra.Command{
	Use:   "show RUN_ID",
	Short: "Print the entities of a stored run",
	Args:  cobra.ExactArgs(1),
	RunE:  exportShowRun,
}

var exportDeleteCmd = &cobra.Command{
	Use:   "delete RUN_ID",
	Short: "Delete a stored run",
	Args:  cobra.ExactArgs(1),
	RunE:  exportDeleteRun,
}

func init() {
	exportParams = &ExportParams{}
	exportCmd.PersistentFlags().StringVar(&exportParams.Database, "db", "qent.db", "sqlite database path")
	exportCmd.Flags().StringVarP(&exportParams.Input, "input", "i", "", "input file path, - for stdin")
	exportCmd.Flags().StringVar(&exportParams.Source, "source", "", "source name stored with the run (default the input path)")
	exportShowCmd.Flags().StringVarP(&exportParams.Format, "format", "t", "json", "output format: json, yaml, toml, summary")

	exportCmd.AddCommand(exportRunsCmd)
	exportCmd.AddCommand(exportShowCmd)
	exportCmd.AddCommand(exportDeleteCmd)
}

func exportRun(cmd *cobra.Command, args []string) error {
	ents, err := loadInput(cmd, exportParams.Input)
	if err != nil {
		return err
	}
	source := exportParams.Source
	if source == "" {
		source = exportParams.Input
	}

	store, err := export.OpenSQLite(exportParams.Database)
	if err != nil {
		return err
	}
	defer store.Close()

	id, err := store.Save(cmd.Context(), source, ents)
	if err != nil {
		return err
	}
	logger.Info("stored run", "run_id", id, "db", store.Path(),
		"entities", ents.Len(), "key_values", ents.KeyValueCount())
	fmt.Fprintln(cmd.OutOrStdout(), id)
	return nil
}

func exportRunsRun(cmd *cobra.Command, args []string) error {
	store, err := export.OpenSQLite(exportParams.Database)
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.Runs(cmd.Context())
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSOURCE\tENTITIES\tKEY-VALUES\tCREATED")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\n", r.ID, r.Source, r.Entities, r.KeyValues, r.CreatedAt.Format(time.RFC3339))
	}
	return tw.Flush()
}

func exportShowRun(cmd *cobra.Command, args []string) error {
	format, err := export.ParseFormat(exportParams.Format)
	if err != nil {
		return err
	}
	store, err := export.OpenSQLite(exportParams.Database)
	if err != nil {
		return err
	}
	defer store.Close()

	doc, err := store.Load(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	return export.Encode(cmd.OutOrStdout(), format, doc)
}

func exportDeleteRun(cmd *cobra.Command, args []string) error {
	store, err := export.OpenSQLite(exportParams.Database)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Delete(cmd.Context(), args[0]); err != nil {
		return err
	}
	logger.Info("deleted run", "run_id", args[0], "db", store.Path())
	return nil
}

package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/annlab/annfix/distance"
	"github.com/annlab/annfix/persistence"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info FILE",
	Short: "Print the header of a persisted index file",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	path := args[0]

	fi, err := os.Stat(path)
	if err != nil {
		return err
	}

	var header *persistence.FileHeader
	err = persistence.LoadFromFile(path, func(r io.Reader) error {
		h, err := persistence.ReadHeader(r)
		header = h
		return err
	})
	if err != nil {
		return err
	}

	metricName := string(header.MetricCode)
	if m, err := distance.ParseCode(header.MetricCode); err == nil {
		metricName = m.String()
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Field", "Value"})
	table.Append([]string{"metric", metricName})
	table.Append([]string{"dimension", strconv.FormatUint(uint64(header.Dimension), 10)})
	table.Append([]string{"items", strconv.FormatUint(header.ItemCount, 10)})
	table.Append([]string{"max item id", strconv.FormatUint(uint64(header.MaxID), 10)})
	table.Append([]string{"compression", persistence.CompressionType(header.Compression).String()})
	table.Append([]string{"payload bytes", strconv.FormatUint(header.PayloadLen, 10)})
	table.Append([]string{"raw bytes", strconv.FormatUint(header.RawLen, 10)})
	table.Append([]string{"checksum", fmt.Sprintf("0x%08x", header.Checksum)})
	table.Append([]string{"file bytes", strconv.FormatInt(fi.Size(), 10)})
	table.Render()
	return nil
}

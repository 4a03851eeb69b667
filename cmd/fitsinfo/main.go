// Command fitsinfo prints a summary of every HDU in a FITS file.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/robert-malhotra/go-fits/fits"
)

var rootCmd = &cobra.Command{
	Use:   "fitsinfo <file.fits>",
	Short: "Inspect the HDUs of a FITS file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := fits.Open(args[0])
		if err != nil {
			return fmt.Errorf("reading %s: %w", args[0], err)
		}
		fmt.Printf("%s: %d HDU(s)\n", args[0], f.NumHDUs())
		for i := 0; i < f.NumHDUs(); i++ {
			printHDU(i, f.HDU(i))
		}
		return nil
	},
}

func printHDU(i int, hdu *fits.HDU) {
	fmt.Printf("\nHDU %d (%d cards)\n", i, len(hdu.Header.Cards()))
	switch ext := hdu.Data.(type) {
	case nil:
		fmt.Println("  header only, no data array")
	case *fits.ImageExtension:
		img := ext.Image
		fmt.Printf("  image: %s, shape %v, %d bytes\n", img.Bitpix(), img.Shape(), img.BlockLength())
	case *fits.TableExtension:
		tbl := ext.Table
		fmt.Printf("  ascii table: %d column(s), %d row(s)\n", tbl.NumCols(), tbl.TargetRows())
		for c := 0; c < tbl.NumCols(); c++ {
			col := tbl.Column(c)
			label := col.Label()
			if label == "" {
				label = "(unlabeled)"
			}
			fmt.Printf("    %-16s %s\n", label, col.Format())
		}
	case *fits.BinTableExtension:
		fmt.Printf("  binary table: %d payload bytes (not decoded)\n", len(ext.Raw))
	case *fits.RandomGroupsExtension:
		fmt.Printf("  random groups: %d payload bytes (not decoded)\n", len(ext.Raw))
	}

	if verbose {
		for _, c := range hdu.Header.Cards() {
			fmt.Printf("  %s\n", strings.TrimRight(c.Render(), " "))
		}
	}
}

var verbose bool

func init() {
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "print every header card")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

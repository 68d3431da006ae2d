package main

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	micrortu "github.com/yobol/go-micrortu"
)

func newIECommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ie",
		Short: "Inspect information elements",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "decode HEX",
		Short: "Decode an IEBuf, type identification first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := decodeHex(args[0])
			if err != nil {
				return err
			}
			if len(raw) > micrortu.IEBufSize {
				return fmt.Errorf("%d bytes, an IEBuf holds %d", len(raw), micrortu.IEBufSize)
			}
			buf := micrortu.IEBufFromBytes(raw)
			if buf.IsTerminator() {
				fmt.Fprintln(cmd.OutOrStdout(), "terminator")
				return nil
			}
			ie, err := buf.SmallIE()
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "type:    %s (%d)\n", ie.TypeID(), uint8(ie.TypeID()))
			fmt.Fprintf(w, "value:   %s\n", ie)
			fmt.Fprintf(w, "float:   %g\n", ie.Float32())
			if q, ok := ie.Quality(); ok {
				fmt.Fprintf(w, "quality: %s\n", q)
			}
			if mon, err := ie.ToMonitorDirection(); err == nil && mon.TypeID() != ie.TypeID() {
				fmt.Fprintf(w, "monitor: %s\n", mon)
			}
			return nil
		},
	}, &cobra.Command{
		Use:   "asdu HEX",
		Short: "Decode an ASDU and list its information objects",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := decodeHex(args[0])
			if err != nil {
				return err
			}
			var asdu micrortu.ASDU
			if err := asdu.Parse(raw); err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%s sq=%v cot=%s ca=%s objects=%d\n", asdu.TypeID, asdu.SQ, asdu.COT, asdu.CA, len(asdu.Objects))
			for _, o := range asdu.Objects {
				fmt.Fprintf(w, "  %s: %s\n", o.IOA, o.IE)
			}
			return nil
		},
	})
	return cmd
}

// decodeHex accepts "0d 00 00 c0 3f 80" and "0d:00:00:c0:3f:80" as well as plain hex.
func decodeHex(s string) ([]byte, error) {
	return hex.DecodeString(strings.NewReplacer(" ", "", ":", "").Replace(s))
}

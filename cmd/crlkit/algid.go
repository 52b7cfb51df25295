package main

import (
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KilimcininKorOglu/crlkit/internal/der"
)

func newAlgIDCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "algid OID [PARAMS-HEX]",
		Short: "Print the DER encoding of an AlgorithmIdentifier",
		Long: `algid encodes an AlgorithmIdentifier for the given dotted OID. The
optional second argument is hex and becomes an OCTET STRING parameter;
without it the parameters are NULL.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var params []byte
			if len(args) == 2 {
				var err error
				if params, err = hex.DecodeString(args[1]); err != nil {
					return fmt.Errorf("parameters: %w", err)
				}
			}

			image, err := der.AlgorithmIdentifier(args[0], params)
			if err != nil {
				return fmt.Errorf("algorithm identifier %s: %w", args[0], err)
			}
			a.logger.Debug("encoded algorithm identifier", "oid", args[0], "length", len(image))
			fmt.Fprintln(a.stdout, hex.EncodeToString(image))
			return nil
		},
	}
}

package cli

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/soyeahso/ocbridge/internal/directory"
)

func newPrincipalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "principal",
		Short: "Encode and decode platform principals",
	}

	cmd.AddCommand(newPrincipalDecodeCmd())
	cmd.AddCommand(newPrincipalEncodeCmd())
	return cmd
}

func newPrincipalDecodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decode <principal>",
		Short: "Decode a textual principal to hex bytes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := directory.DecodePrincipal(args[0])
			if err != nil {
				return err
			}
			fmt.Println(hex.EncodeToString(raw))
			return nil
		},
	}
}

func newPrincipalEncodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "encode <hex>",
		Short: "Encode raw hex bytes as a textual principal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := hex.DecodeString(strings.TrimPrefix(args[0], "0x"))
			if err != nil {
				return fmt.Errorf("invalid hex: %w", err)
			}
			fmt.Println(directory.EncodePrincipal(raw))
			return nil
		},
	}
}

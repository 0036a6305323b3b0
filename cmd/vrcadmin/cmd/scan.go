package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nfrund/vrcadmin/internal/scan"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var scanTimeout time.Duration

var scanCmd = &cobra.Command{
	Use:   "scan <image>...",
	Short: "Verify attendance from QR code images",
	Long: `scan reads the images in order as if they were camera frames. The first
QR code found is verified against the backend; later images are ignored.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		scans := scan.NewManager(client, scan.WithMaxSessions(1))
		defer scans.CloseAll()

		cam := scan.NewFileCamera(afero.NewOsFs(), scan.NewQRDecoder(), args...)
		s, err := scans.Open(cam)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), scanTimeout)
		defer cancel()
		// The camera decodes and verifies on its reader goroutine, so once
		// it has exited the session is either settled or saw no code.
		read := make(chan struct{})
		go func() {
			cam.Wait()
			close(read)
		}()
		select {
		case <-read:
		case <-ctx.Done():
			return fmt.Errorf("scan timed out after %s", scanTimeout)
		}

		o, settled := s.Outcome()
		if !settled {
			return errors.New("no QR code found in the given images")
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", o.Title(), o.Message)
		if !o.OK {
			return errors.New(o.Message)
		}
		return nil
	},
}

func init() {
	scanCmd.Flags().DurationVar(&scanTimeout, "timeout", 30*time.Second, "how long to wait for a result")
	rootCmd.AddCommand(scanCmd)
}

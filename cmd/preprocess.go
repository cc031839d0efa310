package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	cmdutil "github.com/tranvictor/fundctl/cmd/util"
)

func readPreprocess(cmd *cobra.Command, args []string) error {
	return cmdutil.CommonPreprocess(appUI)(cmd, args)
}

func txPreprocess(cmd *cobra.Command, args []string) error {
	return cmdutil.CommonTxPreprocess(appUI)(cmd, args)
}

func session(cmd *cobra.Command) (*cmdutil.Session, error) {
	s, ok := cmdutil.SessionFrom(cmd)
	if !ok {
		return nil, fmt.Errorf("%s ran without its pre-run hook", cmd.Name())
	}
	return s, nil
}

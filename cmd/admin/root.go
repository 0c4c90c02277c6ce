package main

import (
	"context"

	"github.com/spf13/cobra"

	"artflight/internal/app"
	"artflight/internal/bootstrap"
	"artflight/internal/repository"
	"artflight/internal/storage"
)

// env is what a command runs against.
type env struct {
	admin  *app.AdminService
	static storage.Storage
	close  func() error
}

type openFunc func(ctx context.Context) (*env, error)

func openEnv(ctx context.Context) (*env, error) {
	a, err := bootstrap.NewCore(ctx)
	if err != nil {
		return nil, err
	}
	return &env{
		admin:  app.NewAdminService(repository.NewUserRepository(a.DB), a.Media, a.Log),
		static: a.Static,
		close:  a.Close,
	}, nil
}

// NewRootCmd creates the root command. open is called once per subcommand run.
func NewRootCmd(open openFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "admin",
		Short:        "artflight operator tools",
		SilenceUsage: true,
	}

	cmd.AddCommand(newCreateSuperuserCmd(open))
	cmd.AddCommand(newSetStaffCmd(open))
	cmd.AddCommand(newSetActiveCmd(open))
	cmd.AddCommand(newDeleteUserCmd(open))
	cmd.AddCommand(newListUsersCmd(open))
	cmd.AddCommand(newCollectStaticCmd(open))

	return cmd
}

// withEnv opens the environment, runs fn and closes it.
func withEnv(cmd *cobra.Command, open openFunc, fn func(ctx context.Context, e *env) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	e, err := open(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if e.close != nil {
			_ = e.close()
		}
	}()
	return fn(ctx, e)
}

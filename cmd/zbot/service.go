package main

import (
	"fmt"

	"github.com/kardianos/service"
	"github.com/spf13/cobra"
)

// program adapts the bot to the system service manager. Start must not
// block, so the gateway runs in a goroutine and Stop relies on the
// process signal path for teardown.
type program struct {
	cfgPath string
	errCh   chan error
}

func (p *program) Start(_ service.Service) error {
	p.errCh = make(chan error, 1)
	go func() { p.errCh <- runStart(p.cfgPath) }()
	return nil
}

func (p *program) Stop(_ service.Service) error {
	select {
	case err := <-p.errCh:
		return err
	default:
		return nil
	}
}

func serviceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "service",
		Short: "Manage zbot as a system service",
	}

	var cfgPath string
	cmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "zbot.yaml", "Path to configuration file")

	newService := func() (service.Service, error) {
		svcConfig := &service.Config{
			Name:        "zbot",
			DisplayName: "zbot",
			Description: "Zalo chat bot backed by Google Gemini",
			Arguments:   []string{"service", "run", "-c", cfgPath},
		}
		return service.New(&program{cfgPath: cfgPath}, svcConfig)
	}

	for _, action := range []string{"install", "uninstall", "start", "stop", "restart"} {
		action := action
		cmd.AddCommand(&cobra.Command{
			Use:   action,
			Short: fmt.Sprintf("%s the system service", action),
			RunE: func(_ *cobra.Command, _ []string) error {
				svc, err := newService()
				if err != nil {
					return err
				}
				if err := service.Control(svc, action); err != nil {
					return fmt.Errorf("service %s: %w", action, err)
				}
				fmt.Printf("Service %s: OK\n", action)
				return nil
			},
		})
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "run",
		Short: "Run under the service manager (used by install)",
		RunE: func(_ *cobra.Command, _ []string) error {
			svc, err := newService()
			if err != nil {
				return err
			}
			return svc.Run()
		},
	})

	return cmd
}

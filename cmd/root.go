package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"reflect"
	"strings"
	"syscall"

	"github.com/projecteru2/core/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	cmdcore "github.com/rohitnair11/Virtualization/cmd/core"
	cmdmachine "github.com/rohitnair11/Virtualization/cmd/machine"
	cmdothers "github.com/rohitnair11/Virtualization/cmd/others"
	"github.com/rohitnair11/Virtualization/config"
)

var (
	cfgFile string
	conf    *config.Config
)

var rootCmd = func() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "v",
		Short:         "V - provision a VirtualBox development machine for the current directory",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return initConfig(cmdcore.CommandContext(cmd))
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path")
	cmd.PersistentFlags().String("root-dir", "", "bakerx data directory (default ~/.bakerx)")
	cmd.PersistentFlags().String("run-dir", "", "runtime directory (default ~/.v)")
	cmd.PersistentFlags().String("vboxmanage", "", "VBoxManage binary (default VBoxManage)")
	cmd.PersistentFlags().String("log-level", "", "log level (default info)")

	_ = viper.BindPFlag("root_dir", cmd.PersistentFlags().Lookup("root-dir"))
	_ = viper.BindPFlag("run_dir", cmd.PersistentFlags().Lookup("run-dir"))
	_ = viper.BindPFlag("vboxmanage", cmd.PersistentFlags().Lookup("vboxmanage"))
	_ = viper.BindPFlag("log.level", cmd.PersistentFlags().Lookup("log-level"))

	viper.SetEnvPrefix("V")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	setDefaults(config.DefaultConfig())

	base := cmdcore.BaseHandler{ConfProvider: func() *config.Config { return conf }}

	cmd.AddCommand(cmdmachine.Commands(cmdmachine.Handler{BaseHandler: base})...)
	cmd.AddCommand(cmdothers.Commands(cmdothers.Handler{BaseHandler: base})...)

	return cmd
}()

// setDefaults registers every top-level config key with viper so that
// AutomaticEnv can resolve V_* variables for keys absent from the config file.
func setDefaults(def *config.Config) {
	v := reflect.ValueOf(def).Elem()
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		key := t.Field(i).Tag.Get("mapstructure")
		if key == "" || key == "log" {
			continue
		}
		viper.SetDefault(key, v.Field(i).Interface())
	}
	viper.SetDefault("log.level", def.Log.Level)
}

func initConfig(ctx context.Context) error {
	conf = config.DefaultConfig()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", cfgFile, err)
		}
	}

	if err := config.Unmarshal(viper.GetViper(), conf); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}

	cwd, err := cmdcore.WorkDir()
	if err != nil {
		return err
	}
	if err := conf.Normalize(cwd); err != nil {
		return fmt.Errorf("normalize config: %w", err)
	}
	if err := conf.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	return log.SetupLog(ctx, &conf.Log, "")
}

func newCommandContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// Execute is the main entry point called from main.go.
func Execute() error {
	ctx, cancel := newCommandContext()
	defer cancel()
	return rootCmd.ExecuteContext(ctx)
}

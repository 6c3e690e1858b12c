package pppdcli

import (
	"context"
	"os"
	"slices"

	"github.com/urfave/cli/v3"

	"github.com/lwmacct/251124-pppd/internal/config"
	"github.com/lwmacct/251124-pppd/internal/logging"
	"github.com/lwmacct/251124-pppd/internal/metrics"
	"github.com/lwmacct/251124-pppd/internal/option"
	"github.com/lwmacct/251124-pppd/internal/pppd"
)

// 配置优先级 (从低到高)：
// 1. 默认值 (config.DefaultConfig)
// 2. 配置文件 (PPPD_CONFIG)
// 3. 环境变量 (PPPD_*)
// pppd 选项本身由 option 引擎按 options / ~/.ppprc / 命令行 / tty 文件的顺序解析

func action(ctx context.Context, cmd *cli.Command) error {
	cfg, err := config.Load(os.Getenv(config.EnvFile))
	if err != nil {
		return cli.Exit(err.Error(), ExitFatalError)
	}

	logger, initHook, err := logging.New(cfg, cmd.Name)
	if err != nil {
		return cli.Exit(err.Error(), ExitFatalError)
	}
	logHook := logging.NewWriterHook()
	logger.AddHook(logHook)

	m := metrics.New()
	d := pppd.New(cfg,
		pppd.WithLogger(logger),
		pppd.WithInitHook(initHook),
		pppd.WithLogHook(logHook),
		pppd.WithMetrics(m),
		pppd.WithProgname(cmd.Name),
		pppd.WithOutput(cmd.Root().Writer, cmd.Root().ErrWriter))
	defer d.Close()

	args := cmd.Args().Slice()
	fromProcess := len(os.Args) > 0 && slices.Equal(os.Args[1:], args)
	res, err := d.Resolve(args)
	if fromProcess {
		scrubArgv(os.Args[1:], args)
	}

	// 无论成功与否都写出指标，便于 textfile collector 采集失败次数
	if cfg.MetricsFile != "" {
		if werr := m.WriteTextfile(cfg.MetricsFile); werr != nil {
			logger.Warnf("failed to write metrics: %v", werr)
		}
	}

	if err != nil {
		logger.Error(err.Error())
		if option.KindOf(err) == option.KindFatal {
			return cli.Exit("", ExitFatalError)
		}
		return cli.Exit("", ExitOptionError)
	}
	if res.Stop {
		return nil
	}

	logger.WithField("plugins", d.Plugins()).Debug("options resolved")
	return nil
}

// scrubArgv 将解析时被隐藏的参数 (如 password) 写回进程自身的 argv
func scrubArgv(argv, resolved []string) {
	for i, arg := range resolved {
		if arg == option.HiddenArg {
			argv[i] = arg
		}
	}
}

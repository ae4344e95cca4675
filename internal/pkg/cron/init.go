package cron

import log "log/slog"

// InitCron 注册所有定时任务后启动调度
func InitCron(mgr *Manager) error {
	if err := mgr.RegisterJobs(); err != nil {
		return err
	}
	mgr.Start()
	log.Info("Cron Jobs started", "entries", mgr.Entries())
	return nil
}

// Пакет для управления периодическими задачами обслуживания.
//
// Основные возможности:
//   - Регистрация задач в реестре по имени.
//   - Добавление и удаление задач из cron-расписания.
//   - Защита от паники и параллельного запуска одной задачи.
//   - Запуск и остановка cron-диспетчера.
package cronmanager

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

type CronJobFunc func()

type Job struct {
	Func     CronJobFunc
	Schedule string
}

type JobRegistry map[string]Job

type CronManager struct {
	dispatcher  *cron.Cron
	jobs        map[string]cron.EntryID
	mu          sync.Mutex
	jobRegistry JobRegistry
}

// slogLogger передает сообщения cron в slog.
type slogLogger struct{}

func (slogLogger) Info(msg string, keysAndValues ...interface{}) {
	slog.Debug("cron: "+msg, keysAndValues...)
}

func (slogLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	slog.Error("cron: "+msg, append([]interface{}{"err", err}, keysAndValues...)...)
}

// NewCronManager создает менеджер задач из реестра. Задачи не запускаются до вызова LoadJobs и Start.
func NewCronManager(jobRegistry JobRegistry) *CronManager {
	logger := slogLogger{}
	dispatcher := cron.New(
		cron.WithLogger(logger),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
	)

	return &CronManager{
		dispatcher:  dispatcher,
		jobs:        make(map[string]cron.EntryID),
		jobRegistry: jobRegistry,
	}
}

// LoadJobs заново добавляет в расписание все задачи реестра.
// Задача с некорректным расписанием пропускается, остальные загружаются.
func (cm *CronManager) LoadJobs() error {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	for name, entryID := range cm.jobs {
		cm.dispatcher.Remove(entryID)
		delete(cm.jobs, name)
	}

	var failed []string
	for name := range cm.jobRegistry {
		if err := cm.addJob(name); err != nil {
			slog.Error("Error adding job", "name", name, "err", err)
			failed = append(failed, name)
		}
	}
	if len(failed) > 0 {
		return fmt.Errorf("failed to schedule jobs: %v", failed)
	}
	return nil
}

func (cm *CronManager) addJob(name string) error {
	job, exists := cm.jobRegistry[name]
	if !exists {
		return fmt.Errorf("no job function registered for name: %s", name)
	}

	id, err := cm.dispatcher.AddFunc(job.Schedule, job.Func)
	if err != nil {
		return fmt.Errorf("failed to add job '%s': %v", name, err)
	}
	cm.jobs[name] = id
	return nil
}

// RemoveJob убирает задачу из расписания.
func (cm *CronManager) RemoveJob(name string) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if entryID, exists := cm.jobs[name]; exists {
		cm.dispatcher.Remove(entryID)
		delete(cm.jobs, name)
	}
}

// NextRun возвращает время следующего запуска задачи.
func (cm *CronManager) NextRun(name string) (time.Time, bool) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	entryID, exists := cm.jobs[name]
	if !exists {
		return time.Time{}, false
	}
	return cm.dispatcher.Entry(entryID).Next, true
}

func (cm *CronManager) Start() {
	cm.dispatcher.Start()
}

// Stop останавливает диспетчер и ждет завершения выполняющихся задач.
func (cm *CronManager) Stop() {
	ctx := cm.dispatcher.Stop()
	<-ctx.Done()
}

package metrics

import (
	"sync"

	prom "github.com/prometheus/client_golang/prometheus"
	promcollect "github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	registry = prom.NewRegistry()

	SweepsTotal = prom.NewCounter(prom.CounterOpts{
		Namespace: "modshift", Name: "sweeps_total",
		Help: "Reminder sweeps executed",
	})
	RemindersTotal = prom.NewCounter(prom.CounterOpts{
		Namespace: "modshift", Name: "reminders_total",
		Help: "Check-in reminders emitted by the sweep",
	})
	MissesTotal = prom.NewCounter(prom.CounterOpts{
		Namespace: "modshift", Name: "missed_checkins_total",
		Help: "Confirmed missed check-ins recorded",
	})
	DeliveryFailuresTotal = prom.NewCounter(prom.CounterOpts{
		Namespace: "modshift", Name: "delivery_failures_total",
		Help: "Notifications that could not be delivered",
	})
	PersistFailuresTotal = prom.NewCounter(prom.CounterOpts{
		Namespace: "modshift", Name: "persist_failures_total",
		Help: "Failed writes of the data file",
	})
	CheckinsTotal = prom.NewCounter(prom.CounterOpts{
		Namespace: "modshift", Name: "checkins_total",
		Help: "Successful check-ins",
	})
)

var registerOnce sync.Once

// Registry returns the process registry with all collectors registered.
func Registry() *prom.Registry {
	registerOnce.Do(func() {
		registry.MustRegister(
			SweepsTotal, RemindersTotal, MissesTotal,
			DeliveryFailuresTotal, PersistFailuresTotal, CheckinsTotal,
		)
		registry.MustRegister(
			promcollect.NewGoCollector(),
			promcollect.NewProcessCollector(promcollect.ProcessCollectorOpts{}),
		)
	})
	return registry
}

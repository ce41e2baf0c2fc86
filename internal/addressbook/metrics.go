package addressbook

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records address book activity in Prometheus collectors. A nil
// *Metrics is valid and records nothing.
type Metrics struct {
	adds           *prometheus.CounterVec
	importFiles    *prometheus.CounterVec
	importContacts *prometheus.CounterVec
	saves          *prometheus.CounterVec
	contacts       prometheus.Gauge
}

// registerCollector registers c with reg. When an equal collector is
// already registered, the existing one is returned so every Metrics built on
// reg records into what reg gathers.
func registerCollector[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
			return c, fmt.Errorf("register collector: existing collector has type %T", are.ExistingCollector)
		}
		return c, fmt.Errorf("register collector: %w", err)
	}
	return c, nil
}

// NewMetrics creates the address book collectors and registers them with reg.
//
// Metrics registered:
//   - contactbook_addressbook_adds_total{result} - appended or merged adds
//   - contactbook_addressbook_import_files_total{result} - parsed or failed files
//   - contactbook_addressbook_import_contacts_total{result} - added, merged, skipped, invalid
//   - contactbook_addressbook_saves_total{result} - ok or error
//   - contactbook_addressbook_contacts - contacts currently held
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		return nil, errors.New("prometheus registerer is nil")
	}
	const namespace, subsystem = "contactbook", "addressbook"

	m := &Metrics{
		adds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: subsystem,
			Name: "adds_total", Help: "Contacts added by result",
		}, []string{"result"}),

		importFiles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: subsystem,
			Name: "import_files_total", Help: "Import files processed by result",
		}, []string{"result"}),

		importContacts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: subsystem,
			Name: "import_contacts_total", Help: "Imported candidate contacts by result",
		}, []string{"result"}),

		saves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: subsystem,
			Name: "saves_total", Help: "Persisted-state writes by result",
		}, []string{"result"}),

		contacts: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: subsystem,
			Name: "contacts", Help: "Contacts currently held in the address book",
		}),
	}

	var err error
	for _, vec := range []**prometheus.CounterVec{&m.adds, &m.importFiles, &m.importContacts, &m.saves} {
		if *vec, err = registerCollector(reg, *vec); err != nil {
			return nil, err
		}
	}
	if m.contacts, err = registerCollector(reg, m.contacts); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Metrics) incAdd(result string) {
	if m != nil {
		m.adds.WithLabelValues(result).Inc()
	}
}

func (m *Metrics) incImportFile(result string) {
	if m != nil {
		m.importFiles.WithLabelValues(result).Inc()
	}
}

func (m *Metrics) incImportContact(result string) {
	if m != nil {
		m.importContacts.WithLabelValues(result).Inc()
	}
}

func (m *Metrics) incSave(result string) {
	if m != nil {
		m.saves.WithLabelValues(result).Inc()
	}
}

func (m *Metrics) setContacts(n int) {
	if m != nil {
		m.contacts.Set(float64(n))
	}
}

// WriteTextfile writes everything gathered by g to path in the node_exporter
// textfile collector format.
func WriteTextfile(g prometheus.Gatherer, path string) error {
	if err := prometheus.WriteToTextfile(path, g); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}

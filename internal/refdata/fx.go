package refdata

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("refdata",
	fx.Provide(NewSnapshot),
)

// NewSnapshot loads the embedded datasets once at startup. A malformed
// dataset aborts application start.
func NewSnapshot(log *zap.Logger) (*Snapshot, error) {
	snapshot, err := Load()
	if err != nil {
		return nil, err
	}
	log.Named("refdata").Info("reference dataset loaded",
		zap.Int("locations", len(snapshot.yield)),
		zap.Int("products", len(snapshot.products)),
		zap.Int("load_templates", len(snapshot.templates)),
		zap.Int("accessories", len(snapshot.accessories)),
	)
	return snapshot, nil
}

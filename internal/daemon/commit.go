package daemon

import (
	"github.com/google/uuid"

	"github.com/ferretd/ferret-core/internal/device"
)

// CommitAsync queues a commit for the device and returns a transaction
// id for log correlation. The commit itself runs as a reactor task, so
// the caller's D-Bus reply is not held up by hardware IO.
func (d *Daemon) CommitAsync(sysname string) string {
	txn := uuid.NewString()
	go func() {
		if err := d.Call(func() { d.runCommit(sysname, txn) }); err != nil {
			d.logger.Debug("commit dropped", "sysname", sysname, "txn", txn, "error", err)
		}
	}()
	return txn
}

func (d *Daemon) runCommit(sysname, txn string) {
	dev, err := d.registry.Get(sysname)
	if err != nil {
		d.logger.Debug("commit for vanished device", "sysname", sysname, "txn", txn)
		return
	}

	dirty := dev.DirtyProfiles()
	if len(dirty) == 0 {
		d.logger.Debug("commit with nothing to write", "sysname", sysname, "txn", txn)
		return
	}

	if err := dev.Commit(); err != nil {
		d.logger.Warn("commit failed",
			"sysname", sysname, "txn", txn, "driver", dev.Driver().ID(), "error", err)
		d.resync(dev)
		return
	}

	d.logger.Info("commit applied", "sysname", sysname, "txn", txn, "profiles", len(dirty))
	for _, p := range dirty {
		d.signaller.ProfileDirty(sysname, p.Index(), false)
	}
}

// resync reconciles the model with the hardware after a failed commit:
// re-read the full on-board state through the driver so uncommitted
// edits are dropped, then tell clients to refetch everything. A device
// that no longer answers the re-probe is detached.
func (d *Daemon) resync(dev *device.Device) {
	dirty := dev.DirtyProfiles()

	if err := dev.Driver().Probe(dev); err != nil {
		d.logger.Warn("re-probe after failed commit failed, detaching",
			"sysname", dev.Sysname(), "error", err)
		d.detach(dev.Sysname())
		return
	}

	dev.ClearDirty()
	for _, p := range dirty {
		d.signaller.ProfileDirty(dev.Sysname(), p.Index(), false)
	}
	d.signaller.DeviceResync(dev.Sysname())
}

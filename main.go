package main

import (
	"context"
	"log"
	"math/big"
	"strconv"
	"time"

	"github.com/spf13/pflag"
	"golang.org/x/time/rate"

	"bridgeControl/bridge"
	"bridgeControl/bridge/pending"
	"bridgeControl/core"
	"bridgeControl/fees"
	"bridgeControl/fees/feefactor"
	"bridgeControl/ingest/msgcsv"
	"bridgeControl/message"
	"bridgeControl/params"
	"bridgeControl/queue/admission"
	"bridgeControl/queue/suspension"
	"bridgeControl/storage"
	"bridgeControl/supervisor/measure"
	"bridgeControl/utils"
)

var (
	readConfig  bool
	totalBlocks int
	injectSpeed int
	deliverRate int
	workload    string
	realtime    bool
)

// routerProcessor feeds queued messages into the bridge router.
type routerProcessor struct {
	router *bridge.Router
}

func (rp *routerProcessor) ProcessMessage(msg []byte, origin utils.RemoteLocation) (bool, error) {
	_, _, err := rp.router.SendMessage(origin.Network, msg)
	if err != nil {
		return false, err
	}
	return true, nil
}

func main() {
	pflag.BoolVarP(&readConfig, "config", "c", false, "read paramsConfig.json before running")
	pflag.IntVarP(&totalBlocks, "totalBlocks", "n", 0, "override the number of simulated blocks")
	pflag.IntVarP(&injectSpeed, "injectSpeed", "i", 0, "override messages injected per block")
	pflag.IntVarP(&deliverRate, "deliverRate", "d", 15, "messages the remote chain delivers per block")
	pflag.StringVarP(&workload, "workload", "w", "", "override the workload CSV path")
	pflag.BoolVarP(&realtime, "realtime", "r", false, "pace the simulation at one block per Block_Interval")
	pflag.Parse()

	if readConfig {
		params.ReadConfigFile()
	}
	if totalBlocks > 0 {
		params.TotalBlocks = totalBlocks
	}
	if injectSpeed > 0 {
		params.InjectSpeed = injectSpeed
	}
	if workload != "" {
		params.WorkloadFile = workload
	}

	laneID := utils.NewLaneID(0x00, 0x00, 0x00, 0x01)
	remoteHub := utils.RemoteLocation{Version: 4, Network: params.BridgedNetwork, Path: "Parachain(1002)"}

	lane := bridge.NewOutboundLane(laneID, params.ChannelCapacity)
	feeCtrl := feefactor.NewController(feefactor.Config{
		Lane:     laneID,
		BaseFee:  new(big.Int).SetUint64(params.BaseFee),
		ByteFee:  new(big.Int).SetUint64(params.ByteFee),
		Channel:  lane,
		Reporter: remoteHub,
	})
	coordinator := suspension.NewCoordinator(suspension.NewStore(), params.OverloadThreshold)
	hauler := bridge.NewHauler(lane, feeCtrl, coordinator, remoteHub)
	inFlight := pending.NewLedger()
	hauler.SetLedger(inFlight)
	router := bridge.NewRouter(params.BridgedNetwork, feeCtrl, hauler)

	localQueue := core.NewLocalQueue()
	gate := admission.NewGate(coordinator)
	proc := &routerProcessor{router: router}

	// restore persisted congestion state from the previous run
	store, err := storage.Open(params.DatabaseWrite_path + "snapshot.db")
	if err != nil {
		log.Fatalf("open snapshot database: %v", err)
	}
	defer store.Close()
	if state, err := store.LoadBridgeState(laneID); err == nil {
		feeCtrl.RestoreState(state)
	}
	if suspended, err := store.LoadSuspended(); err == nil {
		coordinator.Store().Restore(suspended)
	}

	rows, err := msgcsv.ReadWorkload(params.WorkloadFile, 0)
	if err != nil {
		log.Printf("workload %s unavailable (%v), using synthetic traffic", params.WorkloadFile, err)
		rows = nil
	}

	tracker := fees.GetGlobalTracker()
	feeSeries := measure.NewTestModule_FeeFactor()
	queueSeries := measure.NewTestModule_QueueDetail()

	// one block per Block_Interval when pacing in real time
	var blockPacer *rate.Limiter
	if realtime {
		blockPacer = rate.NewLimiter(rate.Every(time.Duration(params.Block_Interval)*time.Millisecond), 1)
	}

	nextRow := 0
	remoteCongested := false
	for block := uint64(1); block <= uint64(params.TotalBlocks); block++ {
		if blockPacer != nil {
			if err := blockPacer.Wait(context.Background()); err != nil {
				log.Fatalf("block pacing: %v", err)
			}
		}
		// inject this block's traffic into the local queue
		for i := 0; i < params.InjectSpeed; i++ {
			var dest utils.RemoteLocation
			var size uint32
			if nextRow < len(rows) {
				dest = rows[nextRow].Dest()
				size = rows[nextRow].SizeBytes
				nextRow++
			} else {
				dest = remoteHub
				size = uint32(256 + (int(block)+i)%1024)
			}
			payload := make([]byte, size)
			localQueue.AddMsg2Queue(core.NewMessage(payload, dest, laneID, time.Now()))
		}

		// drain the local queue through the admission gate and router
		localQueue.ProcessPending(params.InjectSpeed*2, gate, proc)

		// the remote chain confirms a batch of deliveries
		if lane.EnqueuedCount() > 0 {
			delivered := lane.LatestNonce() - lane.EnqueuedCount() + uint64(deliverRate)
			if delivered > lane.LatestNonce() {
				delivered = lane.LatestNonce()
			}
			hauler.OnMessagesDelivered(delivered)
		}

		// remote congestion reports track lane occupancy; the report
		// crosses the (simulated) wire as a gob envelope
		occupancy := lane.EnqueuedCount()
		if !remoteCongested && occupancy >= params.ChannelCapacity*8/10 {
			report := message.DecodeBridgeStatusReport(
				message.NewBridgeStatusReport(laneID, remoteHub, true).Encode())
			if err := feeCtrl.ReportBridgeStatus(report.Reporter, report.IsCongested); err == nil {
				remoteCongested = true
			}
		} else if remoteCongested && occupancy <= params.ChannelCapacity*2/10 {
			report := message.DecodeBridgeStatusReport(
				message.NewBridgeStatusReport(laneID, remoteHub, false).Encode())
			if err := feeCtrl.ReportBridgeStatus(report.Reporter, report.IsCongested); err == nil {
				remoteCongested = false
			}
		}

		feeCtrl.OnBlockTick()
		tracker.OnBlockFinalized(laneID, []uint64{occupancy})

		snapshot := &message.CongestionSnapshot{
			BlockNumber:    block,
			Lane:           laneID,
			FeeFactor:      feeCtrl.FeeFactor().String(),
			EnqueuedCount:  occupancy,
			LocalQueueLen:  localQueue.GetQueueLen(),
			SuspendedCount: coordinator.Store().Len(),
			IsCongested:    feeCtrl.IsCongested(),
			CommitTime:     time.Now(),
		}
		feeSeries.UpdateMeasureRecord(snapshot)
		queueSeries.UpdateMeasureRecord(snapshot)
	}

	_, finalFactor := feeSeries.OutputRecord()
	depths, peak := queueSeries.OutputRecord()
	stats := inFlight.GetStats()
	log.Printf("simulation done: %d blocks, final fee factor %s, peak lane depth %s, avg occupancy %d",
		len(depths),
		strconv.FormatFloat(finalFactor, 'f', -1, 64),
		strconv.FormatFloat(peak, 'f', -1, 64),
		tracker.GetAvgOccupancy(laneID))
	log.Printf("deliveries: %d confirmed, %d still in flight (%d bytes, %s in quoted fees)",
		stats.SettledCount, stats.PendingCount, stats.TotalBytes, stats.TotalFees)

	// persist congestion state for the next run
	if err := store.SaveBridgeState(laneID, feeCtrl.State()); err != nil {
		log.Fatalf("save bridge state: %v", err)
	}
	if err := store.SaveSuspended(coordinator.Store().Snapshot()); err != nil {
		log.Fatalf("save suspension set: %v", err)
	}
}

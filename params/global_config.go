package params

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
)

// bridge lane & congestion control
var (
	BridgedNetwork = "westend" // name of the bridged consensus network

	OverloadThreshold = uint64(300)  // suspend the local inbound queue when more messages are enqueued on the outbound lane
	ChannelCapacity   = uint64(1000) // outbound channel is congested at/above this occupancy

	BaseFee = uint64(1000000) // base bridge fee paid for every outbound message
	ByteFee = uint64(1000)    // additional fee paid for every byte of the outbound message
)

// simulation & output file path
var (
	Block_Interval = 1000 // The time interval (ms) for generating a new block

	TotalBlocks = 100 // Number of blocks the simulation runs
	InjectSpeed = 20  // Messages injected per block

	OccupancyWindowBlocks = 16 // Number of blocks in the rolling occupancy window

	ExpDataRootDir     = "expTest"                     // The root dir where the experimental data should locate.
	DataWrite_path     = ExpDataRootDir + "/result/"   // Measurement data result output path
	DatabaseWrite_path = ExpDataRootDir + "/database/" // database write path

	WorkloadFile = `./bridgeWorkload.csv` // The raw message workload data path
)

// read from file
type globalConfig struct {
	BridgedNetwork string `json:"BridgedNetwork"`

	OverloadThreshold uint64 `json:"OverloadThreshold"`
	ChannelCapacity   uint64 `json:"ChannelCapacity"`

	BaseFee uint64 `json:"BaseFee"`
	ByteFee uint64 `json:"ByteFee"`

	BlockInterval int `json:"Block_Interval"`

	TotalBlocks int `json:"TotalBlocks"`
	InjectSpeed int `json:"InjectSpeed"`

	OccupancyWindowBlocks int `json:"OccupancyWindowBlocks"`

	ExpDataRootDir string `json:"ExpDataRootDir"`
	WorkloadFile   string `json:"WorkloadFile"`
}

func ReadConfigFile() {
	// read configurations from paramsConfig.json
	data, err := os.ReadFile("paramsConfig.json")
	if err != nil {
		log.Fatalf("Error reading file: %v", err)
	}
	var config globalConfig
	err = json.Unmarshal(data, &config)
	if err != nil {
		log.Fatalf("Error unmarshalling JSON: %v", err)
	}

	// output configurations
	fmt.Printf("Config: %+v\n", config)

	// set configurations to params
	BridgedNetwork = config.BridgedNetwork

	OverloadThreshold = config.OverloadThreshold
	ChannelCapacity = config.ChannelCapacity

	BaseFee = config.BaseFee
	ByteFee = config.ByteFee

	Block_Interval = config.BlockInterval

	TotalBlocks = config.TotalBlocks
	InjectSpeed = config.InjectSpeed

	OccupancyWindowBlocks = config.OccupancyWindowBlocks

	// data file params
	ExpDataRootDir = config.ExpDataRootDir
	DataWrite_path = ExpDataRootDir + "/result/"
	DatabaseWrite_path = ExpDataRootDir + "/database/"

	WorkloadFile = config.WorkloadFile
}

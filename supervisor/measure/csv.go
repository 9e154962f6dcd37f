package measure

import (
	"encoding/csv"
	"log"
	"os"

	"bridgeControl/params"
)

// WriteMetricsToCSV writes one metric table to params.DataWrite_path,
// creating the directory if needed.
func WriteMetricsToCSV(fileName string, colName []string, colVals [][]string) {
	dirpath := params.DataWrite_path
	err := os.MkdirAll(dirpath, os.ModePerm)
	if err != nil {
		log.Panic(err)
	}

	targetPath := dirpath + fileName + ".csv"
	f, err := os.Create(targetPath)
	if err != nil {
		log.Panic(err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(colName); err != nil {
		log.Panic(err)
	}
	for _, val := range colVals {
		if err := w.Write(val); err != nil {
			log.Panic(err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		log.Panic(err)
	}
}

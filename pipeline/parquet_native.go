//go:build !js

package pipeline

import (
	parquetbuffer "github.com/xitongsys/parquet-go-source/buffer"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"

	f1sustain "github.com/lucasjlepore/f1-sustainability"
)

type enrichedParquetRow struct {
	Driver          string  `parquet:"name=driver, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	LapNumber       int64   `parquet:"name=lap_number, type=INT64"`
	LapTime         float64 `parquet:"name=lap_time, type=DOUBLE"`
	Sector1Time     float64 `parquet:"name=sector1_time, type=DOUBLE"`
	Sector2Time     float64 `parquet:"name=sector2_time, type=DOUBLE"`
	Sector3Time     float64 `parquet:"name=sector3_time, type=DOUBLE"`
	TyreLife        float64 `parquet:"name=tyre_life, type=DOUBLE"`
	SectorTotal     float64 `parquet:"name=sector_total, type=DOUBLE"`
	LapTimeDelta    float64 `parquet:"name=lap_time_delta, type=DOUBLE"`
	IsPitStop       bool    `parquet:"name=is_pit_stop, type=BOOLEAN"`
	Stint           int64   `parquet:"name=stint, type=INT64"`
	DegradationRate float64 `parquet:"name=degradation_rate, type=DOUBLE"`
}

func toParquetRow(l f1sustain.EnrichedLap) enrichedParquetRow {
	return enrichedParquetRow{
		Driver:          l.Driver,
		LapNumber:       int64(l.LapNumber),
		LapTime:         l.LapTime,
		Sector1Time:     valueOrNaN(l.Sector1Time),
		Sector2Time:     valueOrNaN(l.Sector2Time),
		Sector3Time:     valueOrNaN(l.Sector3Time),
		TyreLife:        valueOrNaN(l.TyreLife),
		SectorTotal:     valueOrNaN(l.SectorTotal),
		LapTimeDelta:    valueOrNaN(l.LapTimeDelta),
		IsPitStop:       l.IsPitStop,
		Stint:           int64(l.Stint),
		DegradationRate: valueOrNaN(l.DegradationRate),
	}
}

func writeEnrichedParquet(path string, laps []f1sustain.EnrichedLap) error {
	fw, err := local.NewLocalFileWriter(path)
	if err != nil {
		return err
	}
	pw, err := writer.NewParquetWriter(fw, new(enrichedParquetRow), 4)
	if err != nil {
		_ = fw.Close()
		return err
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY
	for _, l := range laps {
		if err := pw.Write(toParquetRow(l)); err != nil {
			_ = pw.WriteStop()
			_ = fw.Close()
			return err
		}
	}
	if err := pw.WriteStop(); err != nil {
		_ = fw.Close()
		return err
	}
	return fw.Close()
}

func marshalEnrichedParquet(laps []f1sustain.EnrichedLap) ([]byte, error) {
	fw := parquetbuffer.NewBufferFile()
	pw, err := writer.NewParquetWriter(fw, new(enrichedParquetRow), 4)
	if err != nil {
		return nil, err
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY
	for _, l := range laps {
		if err := pw.Write(toParquetRow(l)); err != nil {
			_ = pw.WriteStop()
			return nil, err
		}
	}
	if err := pw.WriteStop(); err != nil {
		return nil, err
	}
	if err := fw.Close(); err != nil {
		return nil, err
	}
	return append([]byte(nil), fw.Bytes()...), nil
}

// Package influxdb records structdxf import statistics in InfluxDB.
//
// It wraps the official influxdb-client-go v2 library. Each import writes one
// point to the dxf_import measurement, tagged by model, source file and
// status, with the entity counts from the import result as fields.
//
// # Usage
//
//	client, err := influxdb.Connect(cfg.InfluxDB)
//	if errors.Is(err, influxdb.ErrDisabled) {
//	    // statistics not wanted
//	}
//	defer client.Close()
//
//	client.WriteImport(influxdb.ImportStats{Model: "portal-frame", Nodes: 6})
//
// Writes are batched and non-blocking; asynchronous write errors are
// delivered to the callback set with SetOnError.
package influxdb

// Package mqtt publishes structdxf import events to an MQTT broker.
//
// This package manages:
//   - Connection to the broker with auto-reconnect
//   - Import completed/failed events as JSON
//   - Last Will and Testament (LWT) on the system status topic
//
// # Topics
//
//	structdxf/import/{model}/completed
//	structdxf/import/{model}/failed
//	structdxf/system/status            (retained)
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	err = client.PublishImport(mqtt.ImportEvent{
//	    ImportID: res.ImportID,
//	    Model:    "portal-frame",
//	    Warnings: len(res.Warnings),
//	})
package mqtt

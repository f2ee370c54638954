// Command touch-sensor reads capacitive touch pads on GPIO lines and publishes
// touch and release events to MQTT.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/google/shlex"

	"github.com/sweeney/touch-sensor/internal/capsense"
	"github.com/sweeney/touch-sensor/internal/gpio"
	"github.com/sweeney/touch-sensor/internal/logic"
	"github.com/sweeney/touch-sensor/internal/mqtt"
	"github.com/sweeney/touch-sensor/internal/status"
	"github.com/sweeney/touch-sensor/internal/web"
)

func main() {
	chip := flag.String("chip", gpio.DefaultChip, "GPIO character device")
	pads := flag.String("pads", fmt.Sprintf("left:%d right:%d", gpio.DefaultPinLeft, gpio.DefaultPinRight),
		`touch pads as "name:offset" words (quote names containing spaces)`)
	threshold := flag.Uint("threshold", 8, fmt.Sprintf("reading at or above which a pad is touched (1-%d)", capsense.MaxCycles))
	poll := flag.Duration("poll", 50*time.Millisecond, "pad polling interval")
	debounce := flag.Duration("debounce", 100*time.Millisecond, "Debounce duration")
	broker := flag.String("broker", "tcp://192.168.1.200:1883", "MQTT broker address")
	clientID := flag.String("client-id", "touch-sensor", "MQTT client ID")
	heartbeat := flag.Duration("heartbeat", 15*time.Minute, "Heartbeat interval (0 to disable)")
	printReadings := flag.Bool("print-readings", false, "Print one reading per pad and exit")
	httpAddr := flag.String("http", ":8080", "HTTP status address (empty to disable)")
	flag.Parse()

	padList, err := parsePads(*pads)
	if err != nil {
		log.Fatalf("fatal: -pads: %v", err)
	}
	if *threshold < 1 || *threshold > capsense.MaxCycles {
		log.Fatalf("fatal: -threshold must be between 1 and %d", capsense.MaxCycles)
	}

	cfg := status.Config{
		Chip:        *chip,
		PollMs:      poll.Milliseconds(),
		DebounceMs:  debounce.Milliseconds(),
		HeartbeatMs: heartbeat.Milliseconds(),
		Threshold:   uint8(*threshold),
		Broker:      *broker,
		HTTPAddr:    *httpAddr,
	}
	if err := run(cfg, padList, *poll, *debounce, *heartbeat, *clientID, *printReadings); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

// padConfig names one GPIO line used as a touch pad.
type padConfig struct {
	name   string
	offset int
}

// parsePads parses a shell-style list of "name:offset" words. A bare offset
// is named "pad<offset>".
func parsePads(s string) ([]padConfig, error) {
	words, err := shlex.Split(s)
	if err != nil {
		return nil, fmt.Errorf("split: %w", err)
	}
	if len(words) == 0 {
		return nil, errors.New("no pads configured")
	}

	seen := make(map[string]bool)
	pads := make([]padConfig, 0, len(words))
	for _, w := range words {
		name, num := "", w
		if i := strings.LastIndexByte(w, ':'); i >= 0 {
			name, num = w[:i], w[i+1:]
		}
		offset, err := strconv.Atoi(num)
		if err != nil || offset < 0 {
			return nil, fmt.Errorf("pad %q: invalid offset %q", w, num)
		}
		if name == "" {
			name = "pad" + num
		}
		if seen[name] {
			return nil, fmt.Errorf("duplicate pad name %q", name)
		}
		seen[name] = true
		pads = append(pads, padConfig{name: name, offset: offset})
	}
	return pads, nil
}

// errReporter is implemented by pins that hold back hardware errors.
type errReporter interface {
	Err() error
}

// padReader is a configured pad ready to be sampled.
type padReader struct {
	name   string
	reader capsense.Reader
	pin    errReporter // may be nil
}

func run(cfg status.Config, padList []padConfig, poll, debounce, heartbeat time.Duration, clientID string, printReadings bool) error {
	// Initialize GPIO
	chip, err := gpio.OpenChip(cfg.Chip)
	if err != nil {
		return fmt.Errorf("init gpio: %w", err)
	}
	defer chip.Close()

	pads := make([]padReader, 0, len(padList))
	for _, pc := range padList {
		pin, err := chip.Pin(pc.offset)
		if err != nil {
			return fmt.Errorf("init pad %s: %w", pc.name, err)
		}
		log.Printf("pad %s on %s line %d", pc.name, cfg.Chip, pin.Offset())
		pads = append(pads, padReader{
			name:   pc.name,
			reader: capsense.NewSensor(pin, nil),
			pin:    pin,
		})
	}

	// Print readings mode
	if printReadings {
		for _, p := range pads {
			r := p.reader.Read()
			if err := p.pin.Err(); err != nil {
				return fmt.Errorf("read pad %s: %w", p.name, err)
			}
			fmt.Printf("%s: %d\n", p.name, r)
		}
		return nil
	}

	// Initialize MQTT
	publisher, err := mqtt.NewRealPublisher(cfg.Broker, clientID)
	if err != nil {
		return fmt.Errorf("init mqtt: %w", err)
	}
	defer publisher.Close()

	// Initialize status tracker (before STARTUP so snapshot is available)
	tracker := status.NewTracker(time.Now(), cfg)

	snap := tracker.Snapshot()
	startupEvent := mqtt.SystemEvent{
		Timestamp:  snap.Now,
		Event:      "STARTUP",
		Retained:   true,
		RawPayload: status.FormatStatusEvent(snap, "STARTUP", ""),
	}
	if err := publisher.PublishSystem(startupEvent); err != nil {
		log.Printf("failed to publish startup event: %v", err)
	} else {
		log.Printf("published startup event")
	}

	// Start HTTP status server
	if cfg.HTTPAddr != "" {
		srv := web.New(cfg.HTTPAddr, tracker)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http status server listening on %s", cfg.HTTPAddr)
	}

	log.Printf("started: pads=%d threshold=%d poll=%v debounce=%v broker=%s heartbeat=%v",
		len(pads), cfg.Threshold, poll, debounce, cfg.Broker, heartbeat)

	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	return runLoop(pads, publisher, publisher, tracker, cfg.Threshold, debounce, heartbeat, time.Now, ticker.C, sigCh)
}

func runLoop(pads []padReader, publisher mqtt.Publisher, mqttStatus mqtt.ConnectionStatus, tracker *status.Tracker, threshold uint8, debounce, heartbeat time.Duration, now func() time.Time, tick <-chan time.Time, sig <-chan os.Signal) error {
	names := make([]string, len(pads))
	for i, p := range pads {
		names[i] = p.name
	}
	detector := logic.NewDetector(names, threshold, debounce, now())
	readings := make([]uint8, len(pads))
	log.Printf("detector: pads=%v threshold=%d debounce=%v", detector.Names(), threshold, debounce)

	for {
		select {
		case s := <-sig:
			log.Printf("received %v, shutting down", s)

			signalName := "UNKNOWN"
			if s == syscall.SIGINT {
				signalName = "SIGINT"
			} else if s == syscall.SIGTERM {
				signalName = "SIGTERM"
			}

			event := mqtt.SystemEvent{
				Timestamp: now(),
				Event:     "SHUTDOWN",
				Reason:    signalName,
				Retained:  true,
			}
			if tracker != nil {
				if mqttStatus != nil {
					tracker.SetMQTTConnected(mqttStatus.IsConnected())
				}
				event.RawPayload = status.FormatStatusEvent(tracker.Snapshot(), "SHUTDOWN", signalName)
			}
			if err := publisher.PublishSystem(event); err != nil {
				log.Printf("failed to publish shutdown event: %v", err)
			} else {
				log.Printf("published shutdown event")
			}
			return nil

		case <-tick:
			t := now()
			for i, p := range pads {
				readings[i] = p.reader.Read()
				if p.pin == nil {
					continue
				}
				if err := p.pin.Err(); err != nil {
					log.Printf("gpio: pad %s: %v", p.name, err)
				}
			}

			events := detector.Process(logic.Input{Readings: readings, Time: t})
			for _, event := range events {
				log.Printf("event: %s %s (reading=%d)", event.Type, event.Sensor, event.Reading)
				if err := publisher.Publish(event); err != nil {
					log.Printf("publish error: %v", err)
					// Don't crash on publish failure
				}
			}

			if tracker != nil {
				tracker.Update(detector.CurrentStates(), detector.LastReadings(), detector.IsBaselined(), detector.EventCountsSnapshot())
				if mqttStatus != nil {
					tracker.SetMQTTConnected(mqttStatus.IsConnected())
				}
			}

			if !detector.IsBaselined() {
				// Still waiting for baseline
				continue
			}

			if hbData := detector.CheckHeartbeat(t, heartbeat); hbData != nil {
				log.Printf("heartbeat: uptime=%v counts=%v", hbData.Uptime, hbData.Counts)
				hbEvent := mqtt.SystemEvent{
					Timestamp: hbData.Timestamp,
					Event:     "HEARTBEAT",
				}
				if tracker != nil {
					hbEvent.RawPayload = status.FormatStatusEvent(tracker.Snapshot(), "HEARTBEAT", "")
				}
				if err := publisher.PublishSystem(hbEvent); err != nil {
					log.Printf("heartbeat publish error: %v", err)
				}
			}
		}
	}
}

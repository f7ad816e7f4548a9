/* Copyright 2019 Comcast Cable Communications Management, LLC
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 * http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/000alen/nfasim/sim"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// Publish sends a payload to a topic.
type Publish func(topic string, payload []byte) error

type message struct {
	topic   string
	payload interface{}
}

// MQTTPublisher is a sim.Observer that publishes run events to an
// MQTT broker.
//
// Records go to TOPIC/records, and lifecycle events (as Events) go to
// TOPIC/runs.  Messages are queued so that observers never wait on
// the broker.  When the queue is full, messages are dropped.
type MQTTPublisher struct {
	Topic string

	// Every, if greater than 1, publishes only every Every-th
	// record.  Lifecycle events are always published.
	Every int

	publish Publish
	queue   chan *message
}

func NewMQTTPublisher(topic string, queue int, publish Publish) *MQTTPublisher {
	return &MQTTPublisher{
		Topic:   topic,
		publish: publish,
		queue:   make(chan *message, queue),
	}
}

func (p *MQTTPublisher) enqueue(topic string, x interface{}) {
	select {
	case p.queue <- &message{topic: p.Topic + "/" + topic, payload: x}:
	default:
		log.Printf("MQTTPublisher dropped a message for %s", topic)
	}
}

func (p *MQTTPublisher) RunStarted(info sim.RunInfo) {
	p.enqueue("runs", &Event{
		Type: "started",
		Run:  info.ID,
		Info: &info,
	})
}

func (p *MQTTPublisher) Recorded(info sim.RunInfo, r sim.MetricRecord) {
	if 1 < p.Every && r.Seq%p.Every != 0 {
		return
	}
	p.enqueue("records", &Event{
		Type:   "record",
		Run:    info.ID,
		Record: &r,
	})
}

func (p *MQTTPublisher) RunEnded(s sim.Summary) {
	p.enqueue("runs", &Event{
		Type:    "ended",
		Run:     s.ID,
		Summary: &s,
	})
}

// Run publishes queued messages until the context is done.
func (p *MQTTPublisher) Run(ctx context.Context) {
LOOP:
	for {
		select {
		case <-ctx.Done():
			break LOOP
		case m := <-p.queue:
			js, err := json.Marshal(m.payload)
			if err != nil {
				log.Printf("MQTTPublisher failed to marshal %#v", m.payload)
				continue
			}
			if err = p.publish(m.topic, js); err != nil {
				log.Printf("MQTTPublisher publish error: %s", err)
			}
		}
	}
}

// MQTTFlags are the command-line options for connecting to a broker.
type MQTTFlags struct {
	Broker    *string
	ClientID  *string
	Port      *int
	KeepAlive *int
	Username  *string
	Password  *string
	Topic     *string
	QoS       *int
	Every     *int
}

// NewMQTTFlags defines flags following mosquitto_pub's arguments
// where they overlap.
func NewMQTTFlags(fs *flag.FlagSet) *MQTTFlags {
	return &MQTTFlags{
		Broker:    fs.String("mqtt-h", "", "MQTT broker hostname (empty to disable)"),
		ClientID:  fs.String("mqtt-i", "nfasim", "MQTT client id"),
		Port:      fs.Int("mqtt-p", 1883, "MQTT broker port"),
		KeepAlive: fs.Int("mqtt-k", 10, "MQTT keep-alive in seconds"),
		Username:  fs.String("mqtt-u", "", "MQTT username"),
		Password:  fs.String("mqtt-P", "", "MQTT password"),
		Topic:     fs.String("mqtt-t", "nfasim", "MQTT topic prefix"),
		QoS:       fs.Int("mqtt-q", 0, "MQTT QoS"),
		Every:     fs.Int("mqtt-every", 1, "publish every nth record"),
	}
}

// Connect makes a client, connects to the broker, and returns an
// MQTTPublisher that uses it.
func (f *MQTTFlags) Connect() (*MQTTPublisher, mqtt.Client, error) {
	mqtt.ERROR = log.New(os.Stderr, "mqtt.error ", 0)

	opts := mqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("%s:%d", *f.Broker, *f.Port))
	opts.SetClientID(*f.ClientID)
	opts.SetKeepAlive(time.Second * time.Duration(*f.KeepAlive))
	opts.Username = *f.Username
	opts.Password = *f.Password
	opts.AutoReconnect = true
	opts.OnConnectionLost = func(client mqtt.Client, err error) {
		log.Printf("MQTT connection lost: %v", err)
	}

	client := mqtt.NewClient(opts)
	log.Printf("Attempting to connect to broker %s", *f.Broker)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, nil, token.Error()
	}
	log.Printf("Connected to broker")

	qos := byte(*f.QoS)
	publish := func(topic string, payload []byte) error {
		token := client.Publish(topic, qos, false, payload)
		token.Wait()
		return token.Error()
	}

	p := NewMQTTPublisher(*f.Topic, 1024, publish)
	p.Every = *f.Every
	return p, client, nil
}

package config

import "strings"

var ExampleYaml = `
devices:
  blind.lounge:
    name: Lounge blind
    location: Lounge
  blind.kitchen:
    name: Kitchen blind
    type: motor
    location: Kitchen
  awning.patio:
    name: Patio awning
    location: Garden
endpoints:
  mqtt:
    broker: tcp://127.0.0.1:1883
protocols:
  somfy:
    A1B2C3: blind.lounge
    A2B2C3: blind.kitchen
    0F1E2D: awning.patio
somfy:
  topic: pulses
  verbose: 1
  metrics: :9433
  dedup: 5s
  demod:
    tolerance: 25
`

var ExampleConfig = Must(OpenReader(strings.NewReader(ExampleYaml)))

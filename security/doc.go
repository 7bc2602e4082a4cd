// Package security holds TLS settings for connections to store backends.
//
//	redis:
//	  tls:
//	    enabled: true
//	    ca_file: /etc/discovery/redis-ca.pem
//	    server_name: redis.internal
package security

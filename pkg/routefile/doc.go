// Package routefile loads route definitions from YAML files.
//
// A definition file lists routes and nested groups:
//
//	middleware: [web]
//	routes:
//	  - method: GET
//	    path: /
//	    handler: HomeController@index
//	    name: home
//	groups:
//	  - prefix: /admin
//	    name: admin.
//	    middleware: ["auth:admin"]
//	    routes:
//	      - methods: [GET, POST]
//	        path: /users/{id?}
//	        handler: Admin\UserController@edit
//	        where: {id: "[0-9]+"}
//
// Files are matched with a doublestar glob over an [fs.FS], parsed in
// lexical path order, and validated before being returned. Only
// "Controller@method" handlers can be declared in a file.
package routefile
